package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mirrorctl/internal/pairing"
)

var _ pairing.SiteClient = (*Site)(nil)

// Site is an in-memory implementation of pairing.SiteClient. Two sites
// created through NewSitePair share pairing keys, so the start/complete
// exchanges behave like the real platform: starting at one side creates a
// pending local record, completing at the other links both.
type Site struct {
	CallRecorder
	name string
	addr string
	peer *Site

	mu           sync.Mutex
	clusterPairs map[int]*pairing.ClusterPair
	volumes      map[int]*pairing.Volume
	volumePairs  map[int]*pairing.VolumePair
	pendingKeys  map[string]int
	nextID       int

	ListClusterPairsErr      func(ctx context.Context) error
	StartClusterPairingErr   func(ctx context.Context) error
	CompleteClusterPairingErr func(ctx context.Context, key string) error
	DeleteClusterPairErr     func(ctx context.Context, pairID int) error
	ListVolumesErr           func(ctx context.Context, filter pairing.ListVolumesFilter) error
	GetVolumeErr             func(ctx context.Context, id int) error
	CreateVolumeErr          func(ctx context.Context, req pairing.CreateVolumeRequest) error
	ResizeVolumeErr          func(ctx context.Context, id int, newSize int64) error
	SetVolumeAccessErr       func(ctx context.Context, id int, mode pairing.AccessMode) error
	ListVolumePairsErr       func(ctx context.Context, ids []int) error
	StartVolumePairingErr    func(ctx context.Context, localID int) error
	CompleteVolumePairingErr func(ctx context.Context, localID int, key string) error
	DeleteVolumePairErr      func(ctx context.Context, localID int) error
	SetVolumeReplicationModeErr func(ctx context.Context, id int, mode pairing.ReplicationMode) error
	SetVolumePairedStatusErr func(ctx context.Context, id int, paused bool) error
	CreateSnapshotErr        func(ctx context.Context, id int) error
}

// NewSite creates an unlinked site. Pairing exchanges fail until the site
// has a peer; use NewSitePair for a linked SRC/DST pair.
func NewSite(name, addr string) *Site {
	return &Site{
		name:         name,
		addr:         addr,
		clusterPairs: make(map[int]*pairing.ClusterPair),
		volumes:      make(map[int]*pairing.Volume),
		volumePairs:  make(map[int]*pairing.VolumePair),
		pendingKeys:  make(map[string]int),
		nextID:       100,
	}
}

// NewSitePair creates two linked sites whose pairing keys resolve against
// each other.
func NewSitePair() (src, dst *Site) {
	src = NewSite("src-cluster", "https://src.example.com")
	dst = NewSite("dst-cluster", "https://dst.example.com")
	src.peer = dst
	dst.peer = src
	return src, dst
}

func (s *Site) ClusterName() string { return s.name }
func (s *Site) Address() string     { return s.addr }

// AddVolume seeds a volume, assigning an ID when the given one is zero.
func (s *Site) AddVolume(v pairing.Volume) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.nextID
		s.nextID++
	}
	if v.BlockSize == 0 {
		v.BlockSize = 4096
	}
	s.volumes[v.ID] = &v
	return v.ID
}

// LinkClusters installs a Connected cluster pair on both sites, as if a
// pairing exchange had already completed.
func LinkClusters(src, dst *Site) {
	id := uuid.NewString()
	src.mu.Lock()
	src.clusterPairs[1] = &pairing.ClusterPair{
		PairID: 1, UUID: id, PeerName: dst.name, PeerAddress: dst.addr, Status: pairing.ClusterPairConnected,
	}
	src.mu.Unlock()
	dst.mu.Lock()
	dst.clusterPairs[1] = &pairing.ClusterPair{
		PairID: 1, UUID: id, PeerName: src.name, PeerAddress: src.addr, Status: pairing.ClusterPairConnected,
	}
	dst.mu.Unlock()
}

// LinkVolumes installs a mutual volume pair between two seeded volumes.
func LinkVolumes(src, dst *Site, srcID, dstID int) {
	id := uuid.NewString()
	src.mu.Lock()
	src.volumePairs[srcID] = &pairing.VolumePair{
		LocalVolumeID: srcID, RemoteVolumeID: dstID, UUID: id,
		Mode: pairing.ModeAsync, State: "Active",
	}
	if v, ok := src.volumes[srcID]; ok {
		v.Paired = true
	}
	src.mu.Unlock()
	dst.mu.Lock()
	dst.volumePairs[dstID] = &pairing.VolumePair{
		LocalVolumeID: dstID, RemoteVolumeID: srcID, UUID: id,
		Mode: pairing.ModeAsync, State: "Active",
	}
	if v, ok := dst.volumes[dstID]; ok {
		v.Paired = true
	}
	dst.mu.Unlock()
}

// AddClusterPair seeds a raw cluster pair record, letting tests build
// one-sided or conflicting link states directly.
func (s *Site) AddClusterPair(p pairing.ClusterPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.PairID == 0 {
		p.PairID = s.nextID
		s.nextID++
	}
	s.clusterPairs[p.PairID] = &p
}

// AddVolumePair seeds a raw volume pair record on this site only.
func (s *Site) AddVolumePair(p pairing.VolumePair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumePairs[p.LocalVolumeID] = &p
	if v, ok := s.volumes[p.LocalVolumeID]; ok {
		v.Paired = true
	}
}

// BreakVolumePair deletes one side's record, leaving a one-sided pair.
func (s *Site) BreakVolumePair(localID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.volumePairs, localID)
	if v, ok := s.volumes[localID]; ok {
		v.Paired = false
	}
}

func (s *Site) ListClusterPairs(ctx context.Context) ([]pairing.ClusterPair, error) {
	s.record("ListClusterPairs")
	if s.ListClusterPairsErr != nil {
		if err := s.ListClusterPairsErr(ctx); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pairing.ClusterPair, 0, len(s.clusterPairs))
	for _, p := range s.clusterPairs {
		out = append(out, *p)
	}
	return out, nil
}

func (s *Site) StartClusterPairing(ctx context.Context) (string, error) {
	s.record("StartClusterPairing")
	if s.StartClusterPairingErr != nil {
		if err := s.StartClusterPairingErr(ctx); err != nil {
			return "", err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pairID := s.nextID
	s.nextID++
	s.clusterPairs[pairID] = &pairing.ClusterPair{
		PairID: pairID, UUID: uuid.NewString(), Status: pairing.ClusterPairPending,
	}
	key := fmt.Sprintf("cluster-key-%d", pairID)
	s.pendingKeys[key] = pairID
	return key, nil
}

func (s *Site) CompleteClusterPairing(ctx context.Context, key string) (int, error) {
	s.record("CompleteClusterPairing", key)
	if s.CompleteClusterPairingErr != nil {
		if err := s.CompleteClusterPairingErr(ctx, key); err != nil {
			return 0, err
		}
	}
	if s.peer == nil {
		return 0, fmt.Errorf("site %s has no peer", s.name)
	}
	s.peer.mu.Lock()
	peerPairID, ok := s.peer.pendingKeys[key]
	if !ok {
		s.peer.mu.Unlock()
		return 0, fmt.Errorf("unknown pairing key %q", key)
	}
	delete(s.peer.pendingKeys, key)
	peerPair := s.peer.clusterPairs[peerPairID]
	peerPair.PeerName = s.name
	peerPair.PeerAddress = s.addr
	peerPair.Status = pairing.ClusterPairConnected
	pairUUID := peerPair.UUID
	s.peer.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	pairID := s.nextID
	s.nextID++
	s.clusterPairs[pairID] = &pairing.ClusterPair{
		PairID: pairID, UUID: pairUUID, PeerName: s.peer.name,
		PeerAddress: s.peer.addr, Status: pairing.ClusterPairConnected,
	}
	return pairID, nil
}

func (s *Site) DeleteClusterPair(ctx context.Context, pairID int) error {
	s.record("DeleteClusterPair", pairID)
	if s.DeleteClusterPairErr != nil {
		if err := s.DeleteClusterPairErr(ctx, pairID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clusterPairs[pairID]; !ok {
		return fmt.Errorf("cluster pair %d not found", pairID)
	}
	delete(s.clusterPairs, pairID)
	return nil
}

func (s *Site) ListVolumes(ctx context.Context, filter pairing.ListVolumesFilter) ([]pairing.Volume, error) {
	s.record("ListVolumes", filter)
	if s.ListVolumesErr != nil {
		if err := s.ListVolumesErr(ctx, filter); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[int]bool, len(filter.IDs))
	for _, id := range filter.IDs {
		wanted[id] = true
	}
	var out []pairing.Volume
	for _, v := range s.volumes {
		if filter.AccountID != 0 && v.AccountID != filter.AccountID {
			continue
		}
		if len(filter.IDs) > 0 && !wanted[v.ID] {
			continue
		}
		if filter.PairedOnly && !v.Paired {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *Site) GetVolume(ctx context.Context, id int) (pairing.Volume, error) {
	s.record("GetVolume", id)
	if s.GetVolumeErr != nil {
		if err := s.GetVolumeErr(ctx, id); err != nil {
			return pairing.Volume{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volumes[id]
	if !ok {
		return pairing.Volume{}, fmt.Errorf("volume %d not found", id)
	}
	return *v, nil
}

func (s *Site) CreateVolume(ctx context.Context, req pairing.CreateVolumeRequest) (pairing.Volume, error) {
	s.record("CreateVolume", req)
	if s.CreateVolumeErr != nil {
		if err := s.CreateVolumeErr(ctx, req); err != nil {
			return pairing.Volume{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := pairing.Volume{
		ID:          s.nextID,
		AccountID:   req.AccountID,
		Name:        req.Name,
		TotalSize:   req.TotalSize,
		BlockSize:   req.BlockSize,
		Access:      pairing.AccessReadWrite,
		QoS:         req.QoS,
		QoSPolicyID: req.QoSPolicyID,
	}
	s.nextID++
	s.volumes[v.ID] = &v
	return v, nil
}

func (s *Site) ResizeVolume(ctx context.Context, id int, newSize int64) error {
	s.record("ResizeVolume", id, newSize)
	if s.ResizeVolumeErr != nil {
		if err := s.ResizeVolumeErr(ctx, id, newSize); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volumes[id]
	if !ok {
		return fmt.Errorf("volume %d not found", id)
	}
	if newSize < v.TotalSize {
		return fmt.Errorf("volume %d cannot shrink from %d to %d", id, v.TotalSize, newSize)
	}
	v.TotalSize = newSize
	return nil
}

func (s *Site) SetVolumeAccess(ctx context.Context, id int, mode pairing.AccessMode) error {
	s.record("SetVolumeAccess", id, mode)
	if s.SetVolumeAccessErr != nil {
		if err := s.SetVolumeAccessErr(ctx, id, mode); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volumes[id]
	if !ok {
		return fmt.Errorf("volume %d not found", id)
	}
	v.Access = mode
	return nil
}

func (s *Site) ListVolumePairs(ctx context.Context, ids ...int) ([]pairing.VolumePair, error) {
	s.record("ListVolumePairs", ids)
	if s.ListVolumePairsErr != nil {
		if err := s.ListVolumePairsErr(ctx, ids); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []pairing.VolumePair
	for _, p := range s.volumePairs {
		if len(ids) > 0 && !wanted[p.LocalVolumeID] {
			continue
		}
		rec := *p
		if v, ok := s.volumes[p.LocalVolumeID]; ok {
			rec.LocalVolumeName = v.Name
			rec.LocalVolumeSize = v.TotalSize
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Site) StartVolumePairing(ctx context.Context, localID int) (string, error) {
	s.record("StartVolumePairing", localID)
	if s.StartVolumePairingErr != nil {
		if err := s.StartVolumePairingErr(ctx, localID); err != nil {
			return "", err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volumes[localID]
	if !ok {
		return "", fmt.Errorf("volume %d not found", localID)
	}
	if _, exists := s.volumePairs[localID]; exists {
		return "", fmt.Errorf("volume %d is already paired", localID)
	}
	s.volumePairs[localID] = &pairing.VolumePair{
		LocalVolumeID: localID, UUID: uuid.NewString(),
		Mode: pairing.ModeAsync, State: "PausedMisconfigured",
	}
	v.Paired = true
	key := fmt.Sprintf("volume-key-%d", localID)
	s.pendingKeys[key] = localID
	return key, nil
}

func (s *Site) CompleteVolumePairing(ctx context.Context, localID int, key string) error {
	s.record("CompleteVolumePairing", localID, key)
	if s.CompleteVolumePairingErr != nil {
		if err := s.CompleteVolumePairingErr(ctx, localID, key); err != nil {
			return err
		}
	}
	if s.peer == nil {
		return fmt.Errorf("site %s has no peer", s.name)
	}
	s.peer.mu.Lock()
	peerID, ok := s.peer.pendingKeys[key]
	if !ok {
		s.peer.mu.Unlock()
		return fmt.Errorf("unknown pairing key %q", key)
	}
	delete(s.peer.pendingKeys, key)
	peerPair := s.peer.volumePairs[peerID]
	peerPair.RemoteVolumeID = localID
	peerPair.State = "Active"
	pairUUID := peerPair.UUID
	s.peer.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volumes[localID]
	if !ok {
		return fmt.Errorf("volume %d not found", localID)
	}
	s.volumePairs[localID] = &pairing.VolumePair{
		LocalVolumeID: localID, RemoteVolumeID: peerID, UUID: pairUUID,
		Mode: pairing.ModeAsync, State: "Active",
	}
	v.Paired = true
	return nil
}

func (s *Site) DeleteVolumePair(ctx context.Context, localID int) error {
	s.record("DeleteVolumePair", localID)
	if s.DeleteVolumePairErr != nil {
		if err := s.DeleteVolumePairErr(ctx, localID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volumePairs[localID]; !ok {
		return fmt.Errorf("volume %d has no pair record", localID)
	}
	delete(s.volumePairs, localID)
	if v, ok := s.volumes[localID]; ok {
		v.Paired = false
	}
	return nil
}

func (s *Site) SetVolumeReplicationMode(ctx context.Context, id int, mode pairing.ReplicationMode) error {
	s.record("SetVolumeReplicationMode", id, mode)
	if s.SetVolumeReplicationModeErr != nil {
		if err := s.SetVolumeReplicationModeErr(ctx, id, mode); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.volumePairs[id]
	if !ok {
		return fmt.Errorf("volume %d has no pair record", id)
	}
	p.Mode = mode
	return nil
}

func (s *Site) SetVolumePairedStatus(ctx context.Context, id int, paused bool) error {
	s.record("SetVolumePairedStatus", id, paused)
	if s.SetVolumePairedStatusErr != nil {
		if err := s.SetVolumePairedStatusErr(ctx, id, paused); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.volumePairs[id]
	if !ok {
		return fmt.Errorf("volume %d has no pair record", id)
	}
	if paused {
		p.State = "PausedManual"
	} else {
		p.State = "Active"
	}
	return nil
}

func (s *Site) CreateSnapshot(ctx context.Context, id int, retention time.Duration, name string) (pairing.Snapshot, error) {
	s.record("CreateSnapshot", id, retention, name)
	if s.CreateSnapshotErr != nil {
		if err := s.CreateSnapshotErr(ctx, id); err != nil {
			return pairing.Snapshot{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volumes[id]; !ok {
		return pairing.Snapshot{}, fmt.Errorf("volume %d not found", id)
	}
	snap := pairing.Snapshot{
		ID:         s.nextID,
		VolumeID:   id,
		Name:       name,
		ExpiryTime: time.Now().Add(retention).UTC().Format(time.RFC3339),
	}
	s.nextID++
	return snap, nil
}
