package normalize

// SkipFunc is notified for every record dropped in lenient mode.
type SkipFunc func(recordID, reason string)

// BatchResult aggregates one ProcessAll call. In lenient mode
// len(Records) + Errors equals the input length.
type BatchResult struct {
	Records []FlatRecord
	Errors  int
}

// Processor drives normalization over an ordered batch of raw records.
type Processor struct {
	normalizer *Normalizer
	strict     bool
	onSkip     SkipFunc
}

// NewProcessor wires a normalizer to a batch policy. In strict mode the
// first failing record aborts the whole batch; otherwise failures are
// counted, reported through onSkip and the batch continues. onSkip may be
// nil.
func NewProcessor(n *Normalizer, strict bool, onSkip SkipFunc) *Processor {
	return &Processor{normalizer: n, strict: strict, onSkip: onSkip}
}

// ProcessAll normalizes every record in input order, preserving that
// order in the result. In strict mode it returns the first error and no
// result; in lenient mode it never returns an error.
func (p *Processor) ProcessAll(raws []RawRecord) (*BatchResult, error) {
	result := &BatchResult{Records: make([]FlatRecord, 0, len(raws))}

	for _, raw := range raws {
		flat, err := p.normalizer.Normalize(raw)
		if err != nil {
			result.Errors++
			if p.strict {
				return nil, err
			}
			if p.onSkip != nil {
				p.onSkip(RecordID(raw), err.Error())
			}
			continue
		}
		result.Records = append(result.Records, flat)
	}

	return result, nil
}
