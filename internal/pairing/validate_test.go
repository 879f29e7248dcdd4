package pairing

import (
	"strings"
	"testing"
	"time"
)

func rwVolume(id int, size int64) Volume {
	return Volume{ID: id, TotalSize: size, BlockSize: 4096, Access: AccessReadWrite}
}

func rtVolume(id int, size int64) Volume {
	return Volume{ID: id, TotalSize: size, BlockSize: 4096, Access: AccessReplicationTarget}
}

func TestValidatePairTuple(t *testing.T) {
	t.Run("healthy candidate passes", func(t *testing.T) {
		if err := ValidatePairTuple(rwVolume(101, gib), rtVolume(501, gib)); err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
	})

	t.Run("already paired volumes are rejected", func(t *testing.T) {
		src := rwVolume(101, gib)
		src.Paired = true
		err := ValidatePairTuple(src, rtVolume(501, gib))
		if err == nil || err.Invariant != "pair.src-unpaired" {
			t.Fatalf("expected pair.src-unpaired, got %v", err)
		}
	})

	t.Run("same access mode on both sides is rejected", func(t *testing.T) {
		err := ValidatePairTuple(rwVolume(101, gib), rwVolume(501, gib))
		if err == nil || err.Invariant != "pair.opposite-access" {
			t.Fatalf("expected pair.opposite-access, got %v", err)
		}
	})

	t.Run("reversed direction is rejected with a swap hint", func(t *testing.T) {
		err := ValidatePairTuple(rtVolume(101, gib), rwVolume(501, gib))
		if err == nil || err.Invariant != "pair.direction" {
			t.Fatalf("expected pair.direction, got %v", err)
		}
		if !strings.Contains(err.Detail, "swap SRC/DST") {
			t.Fatalf("detail should suggest swapping sides: %q", err.Detail)
		}
	})

	t.Run("unequal sizes are rejected", func(t *testing.T) {
		err := ValidatePairTuple(rwVolume(101, 2*gib), rtVolume(501, gib))
		if err == nil || err.Invariant != "pair.equal-size" {
			t.Fatalf("expected pair.equal-size, got %v", err)
		}
	})

	t.Run("unequal block sizes are rejected", func(t *testing.T) {
		src := rwVolume(101, gib)
		src.BlockSize = 512
		err := ValidatePairTuple(src, rtVolume(501, gib))
		if err == nil || err.Invariant != "pair.equal-block-size" {
			t.Fatalf("expected pair.equal-block-size, got %v", err)
		}
	})
}

func TestValidateUnpairSingleton(t *testing.T) {
	valid := []Tuple{{Src: 101, Dst: 501}, {Src: 102, Dst: 502}}

	t.Run("one known tuple passes", func(t *testing.T) {
		if err := ValidateUnpairSingleton([]Tuple{{Src: 101, Dst: 501}}, valid); err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
	})

	t.Run("multiple tuples are rejected", func(t *testing.T) {
		err := ValidateUnpairSingleton(valid, valid)
		if err == nil || err.Invariant != "unpair.singleton" {
			t.Fatalf("expected unpair.singleton, got %v", err)
		}
	})

	t.Run("unknown tuple is rejected", func(t *testing.T) {
		err := ValidateUnpairSingleton([]Tuple{{Src: 999, Dst: 501}}, valid)
		if err == nil || err.Invariant != "unpair.known-pair" {
			t.Fatalf("expected unpair.known-pair, got %v", err)
		}
	})
}

func TestResizeBound(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		want    int64
	}{
		{"small volume is bounded by 2x", 100 * gib, 200 * gib},
		{"large volume is bounded by 1 TiB", 2 * tib, tib},
		{"512 GiB sits exactly at the crossover", 512 * gib, tib},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResizeBound(tc.current); got != tc.want {
				t.Fatalf("ResizeBound(%d) = %d, want %d", tc.current, got, tc.want)
			}
		})
	}
}

func TestValidateResize(t *testing.T) {
	t.Run("valid growth passes", func(t *testing.T) {
		if err := ValidateResize(10*gib, rwVolume(101, 100*gib), rtVolume(501, 100*gib)); err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
	})

	t.Run("delta outside the input window is rejected", func(t *testing.T) {
		for _, delta := range []int64{0, gib - 1, 101 * gib} {
			err := ValidateResize(delta, rwVolume(101, 100*gib), rtVolume(501, 100*gib))
			if err == nil || err.Invariant != "resize.delta-window" {
				t.Fatalf("delta %d: expected resize.delta-window, got %v", delta, err)
			}
		}
	})

	t.Run("growth beyond 2x the current size is rejected", func(t *testing.T) {
		err := ValidateResize(3*gib, rwVolume(101, gib), rtVolume(501, gib))
		if err == nil || err.Invariant != "resize.growth-bound" {
			t.Fatalf("expected resize.growth-bound, got %v", err)
		}
		if !strings.Contains(err.Detail, "2.0 GiB") {
			t.Fatalf("detail should cite the computed bound: %q", err.Detail)
		}
	})

	t.Run("2 TiB growth on a 1 TiB volume cites the computed bound", func(t *testing.T) {
		err := ValidateResize(2*tib, rwVolume(101, tib), rtVolume(501, tib))
		if err == nil || err.Invariant != "resize.growth-bound" {
			t.Fatalf("expected resize.growth-bound, got %v", err)
		}
		if !strings.Contains(err.Detail, "1.0 TiB") {
			t.Fatalf("detail should cite the 1 TiB bound: %q", err.Detail)
		}
	})

	t.Run("unequal members are rejected before the bound check", func(t *testing.T) {
		err := ValidateResize(10*gib, rwVolume(101, 100*gib), rtVolume(501, 90*gib))
		if err == nil || err.Invariant != "resize.equal-size" {
			t.Fatalf("expected resize.equal-size, got %v", err)
		}
	})

	t.Run("platform maximum volume size is enforced", func(t *testing.T) {
		size := maxVolumeSize - 10*gib
		err := ValidateResize(20*gib, rwVolume(101, size), rtVolume(501, size))
		if err == nil || err.Invariant != "resize.max-volume-size" {
			t.Fatalf("expected resize.max-volume-size, got %v", err)
		}
	})

	t.Run("abnormal direction is rejected", func(t *testing.T) {
		err := ValidateResize(10*gib, rtVolume(101, 100*gib), rwVolume(501, 100*gib))
		if err == nil || err.Invariant != "resize.direction" {
			t.Fatalf("expected resize.direction, got %v", err)
		}
	})
}

func TestValidateUpsizeRemote(t *testing.T) {
	t.Run("smaller DST passes", func(t *testing.T) {
		if err := ValidateUpsizeRemote(rwVolume(101, 2*gib), rtVolume(501, gib)); err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
	})

	t.Run("equal or larger DST is rejected", func(t *testing.T) {
		for _, dstSize := range []int64{2 * gib, 3 * gib} {
			err := ValidateUpsizeRemote(rwVolume(101, 2*gib), rtVolume(501, dstSize))
			if err == nil || err.Invariant != "upsize.dst-smaller" {
				t.Fatalf("dst %d: expected upsize.dst-smaller, got %v", dstSize, err)
			}
		}
	})
}

func TestValidateClusterPairAbsent(t *testing.T) {
	t.Run("zero records on both sides passes", func(t *testing.T) {
		if err := ValidateClusterPairAbsent(LinkState{}); err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
	})

	t.Run("any record on either side blocks", func(t *testing.T) {
		err := ValidateClusterPairAbsent(LinkState{DstPairs: []ClusterPair{{PairID: 1}}})
		if err == nil || err.Invariant != "cluster-pair.exclusive" {
			t.Fatalf("expected cluster-pair.exclusive, got %v", err)
		}
	})
}

func TestValidateClusterUnpair(t *testing.T) {
	if err := ValidateClusterUnpair(0, 0); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	err := ValidateClusterUnpair(0, 2)
	if err == nil || err.Invariant != "cluster-unpair.no-volume-pairs" {
		t.Fatalf("expected cluster-unpair.no-volume-pairs, got %v", err)
	}
}

func TestValidateReverseSet(t *testing.T) {
	t.Run("uniform opposite modes pass", func(t *testing.T) {
		src := []Volume{rwVolume(101, gib), rwVolume(102, gib)}
		dst := []Volume{rtVolume(501, gib), rtVolume(502, gib)}
		if err := ValidateReverseSet(src, dst); err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
	})

	t.Run("mixed modes on one side are rejected", func(t *testing.T) {
		src := []Volume{rwVolume(101, gib), rtVolume(102, gib)}
		dst := []Volume{rtVolume(501, gib), rtVolume(502, gib)}
		err := ValidateReverseSet(src, dst)
		if err == nil || err.Invariant != "reverse.uniform-access" {
			t.Fatalf("expected reverse.uniform-access, got %v", err)
		}
	})

	t.Run("same mode on both sides is rejected", func(t *testing.T) {
		src := []Volume{rwVolume(101, gib)}
		dst := []Volume{rwVolume(501, gib)}
		err := ValidateReverseSet(src, dst)
		if err == nil || err.Invariant != "reverse.opposite-access" {
			t.Fatalf("expected reverse.opposite-access, got %v", err)
		}
	})
}

func TestValidateSnapshot(t *testing.T) {
	if err := ValidateSnapshot(24*time.Hour, "nightly"); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	for _, retention := range []time.Duration{30 * time.Minute, 721 * time.Hour} {
		err := ValidateSnapshot(retention, "nightly")
		if err == nil || err.Invariant != "snapshot.retention" {
			t.Fatalf("retention %s: expected snapshot.retention, got %v", retention, err)
		}
	}
	if err := ValidateSnapshot(24*time.Hour, ""); err == nil || err.Invariant != "snapshot.name" {
		t.Fatalf("expected snapshot.name, got %v", err)
	}
}
