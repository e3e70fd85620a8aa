package primitives

// ValidatorIndex in eth2.
type ValidatorIndex uint64

// CommitteeIndex in eth2.
type CommitteeIndex uint64

// Gwei is the denomination of all balances handled by the beacon chain.
type Gwei uint64
