package scoring

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// This file hand-codes the wire format in spec §6 directly against
// protowire's low-level varint/fixed/length-delimited primitives, rather
// than generating message types from a .proto file: the schema is small and
// fixed, and the engine has no other use for full descriptor/reflection
// machinery.
//
// Field numbers below are normative and must match spec §6 exactly.

const (
	fieldNotePitch      = protowire.Number(1)
	fieldNoteStartTime  = protowire.Number(2)
	fieldNoteDuration   = protowire.Number(3)
	fieldNoteVelocity   = protowire.Number(4)
	fieldNotePage       = protowire.Number(5)
	fieldNoteTrack      = protowire.Number(6)
	fieldNoteBBox       = protowire.Number(7)
	fieldNoteConfidence = protowire.Number(8)
	fieldNoteID         = protowire.Number(9)

	fieldBBoxX = protowire.Number(1)
	fieldBBoxY = protowire.Number(2)
	fieldBBoxW = protowire.Number(3)
	fieldBBoxH = protowire.Number(4)

	fieldNoteListNotes = protowire.Number(1)
	fieldNoteListSize  = protowire.Number(2)

	fieldPageSizeWidth  = protowire.Number(1)
	fieldPageSizeHeight = protowire.Number(2)

	fieldEditOperation = protowire.Number(1)
	fieldEditPos       = protowire.Number(2)
	fieldEditSChar     = protowire.Number(3)
	fieldEditTChar     = protowire.Number(4)
	fieldEditTPos      = protowire.Number(5)

	fieldTempoStart = protowire.Number(1)
	fieldTempoEnd   = protowire.Number(2)
	fieldTempoValue = protowire.Number(3)

	fieldResultEdits        = protowire.Number(1)
	fieldResultSize         = protowire.Number(2)
	fieldResultUnstableRate = protowire.Number(3)
	fieldResultTempoSecs    = protowire.Number(4)

	fieldRecordingPlayedNotes   = protowire.Number(1)
	fieldRecordingComputedEdits = protowire.Number(2)
	fieldRecordingCreatedAt     = protowire.Number(3)

	fieldTimestampSeconds = protowire.Number(1)
	fieldTimestampNanos   = protowire.Number(2)
)

// appendMessage writes a length-delimited field: tag, varint length, payload.
func appendMessage(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(payload)))
	return append(b, payload...)
}

func appendVarintField(b []byte, num protowire.Number, v int32) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(uint32(v)))
}

func appendFixed64Field(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendFixed32Field(b []byte, num protowire.Number, v float32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// MarshalBBox encodes a BBox as a 4-field message of float32s.
func MarshalBBox(box *BBox) []byte {
	var b []byte
	b = appendFixed32Field(b, fieldBBoxX, box.X)
	b = appendFixed32Field(b, fieldBBoxY, box.Y)
	b = appendFixed32Field(b, fieldBBoxW, box.W)
	b = appendFixed32Field(b, fieldBBoxH, box.H)
	return b
}

// UnmarshalBBox decodes bytes produced by MarshalBBox.
func UnmarshalBBox(data []byte) (*BBox, error) {
	box := &BBox{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldBBoxX, fieldBBoxY, fieldBBoxW, fieldBBoxH:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			f := math.Float32frombits(v)
			switch num {
			case fieldBBoxX:
				box.X = f
			case fieldBBoxY:
				box.Y = f
			case fieldBBoxW:
				box.W = f
			case fieldBBoxH:
				box.H = f
			}
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return box, nil
}

// MarshalPageSize encodes a PageSize as a 2-field message of float32s.
func MarshalPageSize(ps PageSize) []byte {
	var b []byte
	b = appendFixed32Field(b, fieldPageSizeWidth, ps.Width)
	b = appendFixed32Field(b, fieldPageSizeHeight, ps.Height)
	return b
}

// UnmarshalPageSize decodes bytes produced by MarshalPageSize.
func UnmarshalPageSize(data []byte) (PageSize, error) {
	var ps PageSize
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return ps, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldPageSizeWidth, fieldPageSizeHeight:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return ps, protowire.ParseError(n)
			}
			f := math.Float32frombits(v)
			if num == fieldPageSizeWidth {
				ps.Width = f
			} else {
				ps.Height = f
			}
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return ps, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return ps, nil
}

// MarshalNote encodes n per spec §6's Note message.
func MarshalNote(n *Note) []byte {
	var b []byte
	b = appendVarintField(b, fieldNotePitch, n.Pitch)
	b = appendFixed64Field(b, fieldNoteStartTime, n.StartTime)
	b = appendFixed64Field(b, fieldNoteDuration, n.Duration)
	b = appendVarintField(b, fieldNoteVelocity, n.Velocity)
	b = appendVarintField(b, fieldNotePage, n.Page)
	b = appendVarintField(b, fieldNoteTrack, n.Track)
	if n.BBox != nil {
		b = appendMessage(b, fieldNoteBBox, MarshalBBox(n.BBox))
	}
	b = appendVarintField(b, fieldNoteConfidence, n.Confidence)
	b = appendVarintField(b, fieldNoteID, n.ID)
	return b
}

// UnmarshalNote decodes bytes produced by MarshalNote.
func UnmarshalNote(data []byte) (*Note, error) {
	n := &Note{}
	for len(data) > 0 {
		num, typ, tn := protowire.ConsumeTag(data)
		if tn < 0 {
			return nil, protowire.ParseError(tn)
		}
		data = data[tn:]
		switch num {
		case fieldNotePitch, fieldNoteVelocity, fieldNotePage, fieldNoteTrack, fieldNoteConfidence, fieldNoteID:
			v, vn := protowire.ConsumeVarint(data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			setNoteVarint(n, num, int32(uint32(v)))
			data = data[vn:]
		case fieldNoteStartTime, fieldNoteDuration:
			v, vn := protowire.ConsumeFixed64(data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			f := math.Float64frombits(v)
			if num == fieldNoteStartTime {
				n.StartTime = f
			} else {
				n.Duration = f
			}
			data = data[vn:]
		case fieldNoteBBox:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			box, err := UnmarshalBBox(payload)
			if err != nil {
				return nil, err
			}
			n.BBox = box
			data = data[bn:]
		default:
			vn := protowire.ConsumeFieldValue(num, typ, data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			data = data[vn:]
		}
	}
	return n, nil
}

func setNoteVarint(n *Note, num protowire.Number, v int32) {
	switch num {
	case fieldNotePitch:
		n.Pitch = v
	case fieldNoteVelocity:
		n.Velocity = v
	case fieldNotePage:
		n.Page = v
	case fieldNoteTrack:
		n.Track = v
	case fieldNoteConfidence:
		n.Confidence = v
	case fieldNoteID:
		n.ID = v
	}
}

// MarshalNoteList encodes l per spec §6's NoteList message.
func MarshalNoteList(l *NoteList) []byte {
	var b []byte
	for _, n := range l.Notes {
		b = appendMessage(b, fieldNoteListNotes, MarshalNote(n))
	}
	for _, ps := range l.Size {
		b = appendMessage(b, fieldNoteListSize, MarshalPageSize(ps))
	}
	return b
}

// UnmarshalNoteList decodes bytes produced by MarshalNoteList.
func UnmarshalNoteList(data []byte) (*NoteList, error) {
	l := &NoteList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldNoteListNotes:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			note, err := UnmarshalNote(payload)
			if err != nil {
				return nil, err
			}
			l.Notes = append(l.Notes, note)
			data = data[bn:]
		case fieldNoteListSize:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			ps, err := UnmarshalPageSize(payload)
			if err != nil {
				return nil, err
			}
			l.Size = append(l.Size, ps)
			data = data[bn:]
		default:
			vn := protowire.ConsumeFieldValue(num, typ, data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			data = data[vn:]
		}
	}
	return l, nil
}

// MarshalEdit encodes e per spec §6's Edit message.
func MarshalEdit(e *Edit) []byte {
	var b []byte
	b = appendVarintField(b, fieldEditOperation, int32(e.Operation))
	b = appendVarintField(b, fieldEditPos, e.Pos)
	if e.SChar != nil {
		b = appendMessage(b, fieldEditSChar, MarshalNote(e.SChar))
	}
	if e.TChar != nil {
		b = appendMessage(b, fieldEditTChar, MarshalNote(e.TChar))
	}
	b = appendVarintField(b, fieldEditTPos, e.TPos)
	return b
}

// UnmarshalEdit decodes bytes produced by MarshalEdit.
func UnmarshalEdit(data []byte) (*Edit, error) {
	e := &Edit{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldEditOperation:
			v, vn := protowire.ConsumeVarint(data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			e.Operation = EditOperation(int32(uint32(v)))
			data = data[vn:]
		case fieldEditPos, fieldEditTPos:
			v, vn := protowire.ConsumeVarint(data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			if num == fieldEditPos {
				e.Pos = int32(uint32(v))
			} else {
				e.TPos = int32(uint32(v))
			}
			data = data[vn:]
		case fieldEditSChar, fieldEditTChar:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			note, err := UnmarshalNote(payload)
			if err != nil {
				return nil, err
			}
			if num == fieldEditSChar {
				e.SChar = note
			} else {
				e.TChar = note
			}
			data = data[bn:]
		default:
			vn := protowire.ConsumeFieldValue(num, typ, data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			data = data[vn:]
		}
	}
	return e, nil
}

// MarshalTempoSection encodes t per spec §6's TempoSection message.
func MarshalTempoSection(t *TempoSection) []byte {
	var b []byte
	b = appendVarintField(b, fieldTempoStart, t.StartIndex)
	b = appendVarintField(b, fieldTempoEnd, t.EndIndex)
	b = appendFixed64Field(b, fieldTempoValue, t.Tempo)
	return b
}

// UnmarshalTempoSection decodes bytes produced by MarshalTempoSection.
func UnmarshalTempoSection(data []byte) (*TempoSection, error) {
	t := &TempoSection{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldTempoStart, fieldTempoEnd:
			v, vn := protowire.ConsumeVarint(data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			if num == fieldTempoStart {
				t.StartIndex = int32(uint32(v))
			} else {
				t.EndIndex = int32(uint32(v))
			}
			data = data[vn:]
		case fieldTempoValue:
			v, vn := protowire.ConsumeFixed64(data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			t.Tempo = math.Float64frombits(v)
			data = data[vn:]
		default:
			vn := protowire.ConsumeFieldValue(num, typ, data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			data = data[vn:]
		}
	}
	return t, nil
}

// MarshalScoringResult encodes r per spec §6's ScoringResult message.
func MarshalScoringResult(r *ScoringResult) []byte {
	var b []byte
	for _, e := range r.Edits {
		b = appendMessage(b, fieldResultEdits, MarshalEdit(e))
	}
	for _, ps := range r.Size {
		b = appendMessage(b, fieldResultSize, MarshalPageSize(ps))
	}
	b = appendFixed64Field(b, fieldResultUnstableRate, r.UnstableRate)
	for _, t := range r.TempoSections {
		b = appendMessage(b, fieldResultTempoSecs, MarshalTempoSection(t))
	}
	return b
}

// UnmarshalScoringResult decodes bytes produced by MarshalScoringResult.
func UnmarshalScoringResult(data []byte) (*ScoringResult, error) {
	r := &ScoringResult{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldResultEdits:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			e, err := UnmarshalEdit(payload)
			if err != nil {
				return nil, err
			}
			r.Edits = append(r.Edits, e)
			data = data[bn:]
		case fieldResultSize:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			ps, err := UnmarshalPageSize(payload)
			if err != nil {
				return nil, err
			}
			r.Size = append(r.Size, ps)
			data = data[bn:]
		case fieldResultUnstableRate:
			v, vn := protowire.ConsumeFixed64(data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			r.UnstableRate = math.Float64frombits(v)
			data = data[vn:]
		case fieldResultTempoSecs:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			t, err := UnmarshalTempoSection(payload)
			if err != nil {
				return nil, err
			}
			r.TempoSections = append(r.TempoSections, t)
			data = data[bn:]
		default:
			vn := protowire.ConsumeFieldValue(num, typ, data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			data = data[vn:]
		}
	}
	return r, nil
}

// MarshalRecording encodes rec per spec §6's Recording message. created_at
// is written in the shape of google.protobuf.Timestamp (seconds, nanos)
// rather than a bare int64, matching the wire schema's `timestamp` type.
func MarshalRecording(rec *Recording) []byte {
	var b []byte
	if rec.PlayedNotes != nil {
		b = appendMessage(b, fieldRecordingPlayedNotes, MarshalNoteList(rec.PlayedNotes))
	}
	if rec.ComputedEdits != nil {
		b = appendMessage(b, fieldRecordingComputedEdits, MarshalScoringResult(rec.ComputedEdits))
	}
	var ts []byte
	ts = protowire.AppendTag(ts, fieldTimestampSeconds, protowire.VarintType)
	ts = protowire.AppendVarint(ts, uint64(rec.CreatedAt))
	b = appendMessage(b, fieldRecordingCreatedAt, ts)
	return b
}

// UnmarshalRecording decodes bytes produced by MarshalRecording.
func UnmarshalRecording(data []byte) (*Recording, error) {
	rec := &Recording{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldRecordingPlayedNotes:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			nl, err := UnmarshalNoteList(payload)
			if err != nil {
				return nil, err
			}
			rec.PlayedNotes = nl
			data = data[bn:]
		case fieldRecordingComputedEdits:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			sr, err := UnmarshalScoringResult(payload)
			if err != nil {
				return nil, err
			}
			rec.ComputedEdits = sr
			data = data[bn:]
		case fieldRecordingCreatedAt:
			payload, bn := protowire.ConsumeBytes(data)
			if bn < 0 {
				return nil, protowire.ParseError(bn)
			}
			seconds, err := decodeTimestamp(payload)
			if err != nil {
				return nil, err
			}
			rec.CreatedAt = seconds
			data = data[bn:]
		default:
			vn := protowire.ConsumeFieldValue(num, typ, data)
			if vn < 0 {
				return nil, protowire.ParseError(vn)
			}
			data = data[vn:]
		}
	}
	return rec, nil
}

func decodeTimestamp(data []byte) (int64, error) {
	var seconds int64
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldTimestampSeconds, fieldTimestampNanos:
			v, vn := protowire.ConsumeVarint(data)
			if vn < 0 {
				return 0, protowire.ParseError(vn)
			}
			if num == fieldTimestampSeconds {
				seconds = int64(v)
			}
			data = data[vn:]
		default:
			vn := protowire.ConsumeFieldValue(num, typ, data)
			if vn < 0 {
				return 0, protowire.ParseError(vn)
			}
			data = data[vn:]
		}
	}
	return seconds, nil
}
