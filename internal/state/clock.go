package state

type OpType string

const (
	OpInsertStroke    OpType = "insert_stroke"
	OpDeleteStroke    OpType = "delete_stroke"
	OpTranslateStroke OpType = "translate_stroke"
	OpClear           OpType = "clear"
	OpRestore         OpType = "restore"
)

// Op describes one committed mutation of the store.
type Op struct {
	Type    OpType
	Strokes []*Stroke
	DX, DY  float64 // translation, for OpTranslateStroke
	Seq     uint64
}

// nextSeq advances the store's logical clock.
func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// Seq returns the sequence number of the last committed op.
func (s *Store) Seq() uint64 { return s.seq }

// emit stamps op with the next sequence number unless the caller already
// reserved one, then notifies the observer.
func (s *Store) emit(op Op) {
	if op.Seq == 0 {
		op.Seq = s.nextSeq()
	}
	if s.OnOp != nil {
		s.OnOp(op)
	}
}
