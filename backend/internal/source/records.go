package source

import "hetio-cli/backend/internal/hetnet"

// sliceSequence serves records from memory
type sliceSequence struct {
	records []hetnet.Record
	pos     int
}

// Records returns a Sequence over the given records, in order
func Records(records ...hetnet.Record) Sequence {
	return &sliceSequence{records: records, pos: -1}
}

func (s *sliceSequence) Next() bool {
	if s.pos+1 >= len(s.records) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceSequence) Record() hetnet.Record {
	return s.records[s.pos]
}

func (s *sliceSequence) Err() error {
	return nil
}
