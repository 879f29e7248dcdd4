package element

import (
	"encoding/json"
	"fmt"

	"mirrorctl/internal/pairing"
)

// APIError is a fault returned by the management endpoint itself, as
// opposed to a transport failure.
type APIError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api fault %s: %s", e.Name, e.Message)
}

type rpcRequest struct {
	Method string `json:"method"`
	Params any    `json:"params"`
	ID     int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error"`
	ID     int             `json:"id"`
}

// Wire shapes of the management API. Only the fields the tool reads are
// declared; the endpoint sends more.

type wireClusterInfo struct {
	ClusterInfo struct {
		Name string `json:"name"`
		Mvip string `json:"mvip"`
	} `json:"clusterInfo"`
}

type wireClusterPair struct {
	ClusterPairID   int    `json:"clusterPairID"`
	ClusterPairUUID string `json:"clusterPairUUID"`
	ClusterName     string `json:"clusterName"`
	Mvip            string `json:"mvip"`
	Status          string `json:"status"`
}

func (w wireClusterPair) toPair() pairing.ClusterPair {
	return pairing.ClusterPair{
		PairID:      w.ClusterPairID,
		UUID:        w.ClusterPairUUID,
		PeerName:    w.ClusterName,
		PeerAddress: w.Mvip,
		Status:      pairing.ClusterPairStatus(w.Status),
	}
}

type wireRemoteReplication struct {
	Mode  string `json:"mode"`
	State string `json:"state"`
}

type wireVolumePair struct {
	ClusterPairID     int                   `json:"clusterPairID"`
	RemoteVolumeID    int                   `json:"remoteVolumeID"`
	RemoteVolumeName  string                `json:"remoteVolumeName"`
	VolumePairUUID    string                `json:"volumePairUUID"`
	RemoteReplication wireRemoteReplication `json:"remoteReplication"`
}

type wireVolume struct {
	VolumeID    int              `json:"volumeID"`
	AccountID   int              `json:"accountID"`
	Name        string           `json:"name"`
	TotalSize   int64            `json:"totalSize"`
	BlockSize   int              `json:"blockSize"`
	Access      string           `json:"access"`
	QoS         *pairing.QoS     `json:"qos,omitempty"`
	QoSPolicyID int              `json:"qosPolicyID,omitempty"`
	VolumePairs []wireVolumePair `json:"volumePairs"`
}

func (w wireVolume) toVolume() pairing.Volume {
	return pairing.Volume{
		ID:          w.VolumeID,
		AccountID:   w.AccountID,
		Name:        w.Name,
		TotalSize:   w.TotalSize,
		BlockSize:   w.BlockSize,
		Access:      pairing.AccessMode(w.Access),
		QoS:         w.QoS,
		QoSPolicyID: w.QoSPolicyID,
		Paired:      len(w.VolumePairs) > 0,
	}
}

func (w wireVolume) toVolumePairs() []pairing.VolumePair {
	out := make([]pairing.VolumePair, 0, len(w.VolumePairs))
	for _, p := range w.VolumePairs {
		out = append(out, pairing.VolumePair{
			LocalVolumeID:    w.VolumeID,
			RemoteVolumeID:   p.RemoteVolumeID,
			UUID:             p.VolumePairUUID,
			ClusterPairID:    p.ClusterPairID,
			Mode:             pairing.ReplicationMode(p.RemoteReplication.Mode),
			State:            p.RemoteReplication.State,
			LocalVolumeName:  w.Name,
			RemoteVolumeName: p.RemoteVolumeName,
			LocalVolumeSize:  w.TotalSize,
		})
	}
	return out
}

type wireSnapshot struct {
	SnapshotID int    `json:"snapshotID"`
	VolumeID   int    `json:"volumeID"`
	Name       string `json:"name"`
	ExpiryTime string `json:"expirationTime"`
}

func (w wireSnapshot) toSnapshot() pairing.Snapshot {
	return pairing.Snapshot{
		ID:         w.SnapshotID,
		VolumeID:   w.VolumeID,
		Name:       w.Name,
		ExpiryTime: w.ExpiryTime,
	}
}
