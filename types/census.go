package types

// CensusProof is the proof of inclusion of an identity in the commitment tree
// of an election. It is handed to the voter, who attaches Siblings to the
// ballot.
type CensusProof struct {
	Root     Hash     `json:"root"`
	Identity Identity `json:"identity"`
	Leaf     Hash     `json:"leaf"`
	Siblings []Hash   `json:"siblings"`
}
