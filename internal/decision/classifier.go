package decision

// Classified holds votes partitioned by type, each bucket in input order.
type Classified struct {
	Agreements    []Vote
	Disagreements []Vote
	Abstains      []Vote
	Blocks        []Vote
}

func (c Classified) Total() int {
	return len(c.Agreements) + len(c.Disagreements) + len(c.Abstains) + len(c.Blocks)
}

// Classify drops votes of unrecognised types from every bucket.
func Classify(votes []Vote) Classified {
	var classified Classified

	for _, vote := range votes {
		switch vote.VoteType {
		case VoteTypeAgree:
			classified.Agreements = append(classified.Agreements, vote)
		case VoteTypeDisagree:
			classified.Disagreements = append(classified.Disagreements, vote)
		case VoteTypeAbstain:
			classified.Abstains = append(classified.Abstains, vote)
		case VoteTypeBlock:
			classified.Blocks = append(classified.Blocks, vote)
		}
	}

	return classified
}
