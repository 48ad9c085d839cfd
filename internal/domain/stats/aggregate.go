package stats

// Aggregate averages a collection of tuples per key, rounding each mean
// to 3 decimals. An empty collection yields the zero tuple rather than
// an error; a caller with no stored matches simply has nothing to show
// yet.
func Aggregate(tuples []Tuple) Tuple {
	if len(tuples) == 0 {
		return Zero()
	}
	var sum Tuple
	for _, t := range tuples {
		sum.BoostUsage += t.BoostUsage
		sum.FlipCount += t.FlipCount
		sum.Shots += t.Shots
		sum.Goals += t.Goals
	}
	n := float64(len(tuples))
	return Tuple{
		BoostUsage: round3(sum.BoostUsage / n),
		FlipCount:  round3(sum.FlipCount / n),
		Shots:      round3(sum.Shots / n),
		Goals:      round3(sum.Goals / n),
	}
}
