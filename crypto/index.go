package crypto

// Index maps an uppercase-hex validator address to the verifier handle for
// its public key. It accompanies, but is distinct from, a validator set: a
// validator can be present in the set while absent here, when its key
// failed to materialize at import time. An absent entry is "known
// validator, unverifiable signature", never "unknown validator".
type Index struct {
	keys map[string]PubKey
}

// NewIndex returns an empty, mutable-during-import index.
func NewIndex() *Index {
	return &Index{keys: make(map[string]PubKey)}
}

// Set records the verifier handle for addrHex. Called once per validator
// during import; never mutated afterwards.
func (idx *Index) Set(addrHex string, key PubKey) {
	idx.keys[addrHex] = key
}

// Lookup returns the verifier handle for addrHex, if its key materialized.
func (idx *Index) Lookup(addrHex string) (PubKey, bool) {
	k, ok := idx.keys[addrHex]
	return k, ok
}

// Len reports how many keys materialized successfully.
func (idx *Index) Len() int {
	return len(idx.keys)
}
