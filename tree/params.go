package tree

// Params holds the tunable policy constants of the tree. Probabilities are in
// [0, 1].
type Params struct {
	// DescendStop is the chance that DescendRandom stops at a node holding a
	// snapshot instead of continuing to a child.
	DescendStop float64

	// AscendContinue is the chance that AscendRandom moves past each node
	// toward the root.
	AscendContinue float64

	// SwitchToBest is the chance that SelectExtensionTarget samples from the
	// priority index instead of keeping the current node.
	SwitchToBest float64

	// RankAdvance is the per-step chance of moving one position deeper into
	// the priority index while sampling. Higher values sample deeper.
	RankAdvance float64

	// MaintenancePeriod is the number of MaybeRunMaintenance calls between
	// maintenance passes. Zero or less disables automatic maintenance.
	MaintenancePeriod int

	// MaxIndexed caps how many nodes stay in the priority index after a
	// maintenance pass. Zero means no cap.
	MaxIndexed int
}

// DefaultParams returns the reference policy: stop descending 16/256 of the
// time, ascend 128/256, switch to the index half the time, advance through
// the index with probability 192/256.
func DefaultParams() Params {
	return Params{
		DescendStop:       16.0 / 256.0,
		AscendContinue:    128.0 / 256.0,
		SwitchToBest:      128.0 / 256.0,
		RankAdvance:       (128.0 + 64.0) / 256.0,
		MaintenancePeriod: 1000,
		MaxIndexed:        0,
	}
}
