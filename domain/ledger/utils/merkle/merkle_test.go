package merkle

import (
	"testing"

	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
)

func leavesForTest(count int) []*externalapi.DomainHash {
	leaves := make([]*externalapi.DomainHash, count)
	for i := range leaves {
		leaves[i] = externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{byte(i + 1)})
	}
	return leaves
}

func TestCalculateRoot(t *testing.T) {
	leaves := leavesForTest(3)
	expected := hashMerkleBranches(
		hashMerkleBranches(leaves[0], leaves[1]),
		hashMerkleBranches(leaves[2], leaves[2]))
	if root := CalculateRoot(leaves); !root.Equal(expected) {
		t.Fatalf("TestCalculateRoot: unexpected root. Want: %s, got: %s", expected, root)
	}

	if root := CalculateRoot(leaves[:1]); !root.Equal(leaves[0]) {
		t.Fatalf("TestCalculateRoot: root of a single leaf should be the leaf itself")
	}

	zeroHash := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{})
	if root := CalculateRoot(nil); !root.Equal(zeroHash) {
		t.Fatalf("TestCalculateRoot: root of an empty tree should be the zero hash")
	}
}

func TestGeneratePathVerifies(t *testing.T) {
	for leafCount := 1; leafCount <= 9; leafCount++ {
		leaves := leavesForTest(leafCount)
		root := CalculateRoot(leaves)
		for index := range leaves {
			path, err := GeneratePath(leaves, index)
			if err != nil {
				t.Fatalf("GeneratePath(%d leaves, %d) unexpectedly failed: %s", leafCount, index, err)
			}
			if !VerifyPath(leaves[index], path, root) {
				t.Fatalf("path of leaf %d in a tree of %d leaves does not verify", index, leafCount)
			}
			other := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xff})
			if VerifyPath(other, path, root) {
				t.Fatalf("path of leaf %d in a tree of %d leaves verifies a foreign leaf", index, leafCount)
			}
		}
	}
}

func TestGeneratePathOutOfRange(t *testing.T) {
	leaves := leavesForTest(4)
	if _, err := GeneratePath(leaves, 4); err == nil {
		t.Fatalf("GeneratePath unexpectedly accepted an out of range index")
	}
	if _, err := GeneratePath(leaves, -1); err == nil {
		t.Fatalf("GeneratePath unexpectedly accepted a negative index")
	}
}
