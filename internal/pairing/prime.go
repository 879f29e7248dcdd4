package pairing

import (
	"context"
	"fmt"
	"log/slog"
)

// PrimeDestination creates one candidate volume at DST per requested SRC
// template volume: same name, size, block size and QoS, owned by the DST
// account, and explicitly set to replicationTarget after creation so a
// later pair action finds it in the right mode. No pairing is created.
//
// Every template must be owned by the SRC account and must not already be
// in a replication relationship. Results carry (SRC template ID, new DST
// volume ID) tuples ready to feed into volume pair.
func (o *Orchestrator) PrimeDestination(ctx context.Context, req PrimeRequest) ([]TupleResult, error) {
	if len(req.SrcVolumeIDs) == 0 {
		return nil, validationf("prime.volumes", "no SRC template volume IDs supplied")
	}
	if _, err := o.Reader().RequirePaired(ctx); err != nil {
		return nil, err
	}

	srcVols, err := o.Src.ListVolumes(ctx, ListVolumesFilter{AccountID: req.SrcAccountID})
	if err != nil {
		return nil, remoteErr("SRC", fmt.Sprintf("ListVolumes(account %d)", req.SrcAccountID), err)
	}
	byID := make(map[int]Volume, len(srcVols))
	for _, v := range srcVols {
		byID[v.ID] = v
	}

	templates := make([]Volume, 0, len(req.SrcVolumeIDs))
	for _, id := range req.SrcVolumeIDs {
		v, ok := byID[id]
		if !ok {
			return nil, validationf("prime.account-owns-volume",
				"SRC volume %d is not owned by account %d", id, req.SrcAccountID)
		}
		if v.Paired {
			return nil, validationf("prime.template-unpaired",
				"SRC volume %d already has a replication relationship; templates must be unpaired", id)
		}
		templates = append(templates, v)
	}

	// A bad DST account fails here, before anything is created.
	if _, err := o.Dst.ListVolumes(ctx, ListVolumesFilter{AccountID: req.DstAccountID}); err != nil {
		return nil, remoteErr("DST", fmt.Sprintf("ListVolumes(account %d)", req.DstAccountID), err)
	}

	results := make([]TupleResult, 0, len(templates))
	for _, tpl := range templates {
		created, err := o.Dst.CreateVolume(ctx, CreateVolumeRequest{
			AccountID:   req.DstAccountID,
			Name:        tpl.Name,
			TotalSize:   tpl.TotalSize,
			BlockSize:   tpl.BlockSize,
			QoS:         tpl.QoS,
			QoSPolicyID: tpl.QoSPolicyID,
		})
		if err != nil {
			results = append(results, TupleResult{
				Tuple: Tuple{Src: tpl.ID},
				Err:   remoteErr("DST", fmt.Sprintf("CreateVolume(%q)", tpl.Name), err),
			})
			continue
		}
		if err := o.Dst.SetVolumeAccess(ctx, created.ID, AccessReplicationTarget); err != nil {
			results = append(results, TupleResult{
				Tuple: Tuple{Src: tpl.ID, Dst: created.ID},
				Err: fmt.Errorf("volume %d created but left in mode %s: %w",
					created.ID, created.Access, remoteErr("DST", fmt.Sprintf("SetVolumeAccess(%d)", created.ID), err)),
			})
			continue
		}
		slog.Info("Primed destination volume.",
			"srcVolume", tpl.ID, "dstVolume", created.ID, "name", tpl.Name, "size", tpl.TotalSize)
		results = append(results, TupleResult{
			Tuple:  Tuple{Src: tpl.ID, Dst: created.ID},
			Detail: fmt.Sprintf("created DST volume %d (%q) as replicationTarget from SRC template %d", created.ID, tpl.Name, tpl.ID),
		})
	}

	return results, batchOutcome(string(ActionPrime), results)
}
