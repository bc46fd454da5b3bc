package merkle

import (
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/ledger/utils/hashes"
	"github.com/pkg/errors"
)

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.
func hashMerkleBranches(left, right *externalapi.DomainHash) *externalapi.DomainHash {
	writer := hashes.NewMerkleBranchHashWriter()
	writer.InfallibleWrite(left.ByteSlice())
	writer.InfallibleWrite(right.ByteSlice())
	return writer.Finalize()
}

// buildLevels returns every level of the binary merkle tree built from the
// given leaves, starting with the leaves themselves and ending with the root.
// A level with an odd number of nodes pairs its last node with itself.
func buildLevels(leaves []*externalapi.DomainHash) [][]*externalapi.DomainHash {
	levels := [][]*externalapi.DomainHash{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([]*externalapi.DomainHash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			left := current[i]
			right := left
			if i+1 < len(current) {
				right = current[i+1]
			}
			next = append(next, hashMerkleBranches(left, right))
		}
		levels = append(levels, next)
		current = next
	}
	return levels
}

// CalculateRoot returns the merkle root of the given leaves. The root of an
// empty tree is the zero hash.
func CalculateRoot(leaves []*externalapi.DomainHash) *externalapi.DomainHash {
	if len(leaves) == 0 {
		return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{})
	}
	levels := buildLevels(leaves)
	return levels[len(levels)-1][0]
}

// GeneratePath returns the sibling nodes on the way from the leaf at the
// given index up to the root.
func GeneratePath(leaves []*externalapi.DomainHash, index int) ([]*externalapi.MerklePathNode, error) {
	if index < 0 || index >= len(leaves) {
		return nil, errors.Errorf("leaf index %d is out of range for a tree of %d leaves", index, len(leaves))
	}

	levels := buildLevels(leaves)
	path := make([]*externalapi.MerklePathNode, 0, len(levels)-1)
	for _, level := range levels[:len(levels)-1] {
		siblingIndex := index ^ 1
		if siblingIndex >= len(level) {
			siblingIndex = index
		}
		path = append(path, &externalapi.MerklePathNode{
			Hash:            level[siblingIndex],
			IsLeftChildNode: siblingIndex < index,
		})
		index /= 2
	}
	return path, nil
}

// ComputeRootFromPath returns the root that the given path leads to when
// starting at leaf
func ComputeRootFromPath(leaf *externalapi.DomainHash, path []*externalapi.MerklePathNode) *externalapi.DomainHash {
	current := leaf
	for _, node := range path {
		if node.IsLeftChildNode {
			current = hashMerkleBranches(node.Hash, current)
		} else {
			current = hashMerkleBranches(current, node.Hash)
		}
	}
	return current
}

// VerifyPath returns whether the given path proves that leaf is part of the
// tree with the given root
func VerifyPath(leaf *externalapi.DomainHash, path []*externalapi.MerklePathNode, root *externalapi.DomainHash) bool {
	return ComputeRootFromPath(leaf, path).Equal(root)
}
