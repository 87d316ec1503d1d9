package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/san-kum/skyfloat/internal/balloon"
)

// Record is one persisted balloon. Pointer fields tell a missing value from
// a zero one.
type Record struct {
	Text     *string  `json:"text"`
	Category *string  `json:"category"`
	Color    *string  `json:"color"`
	Size     *float64 `json:"size"`
	TargetY  *float64 `json:"targetY"`

	err error
}

var errMalformed = errors.New("storage: malformed record")

func recordOf(s balloon.Snapshot) Record {
	category := s.Category.String()
	return Record{
		Text:     &s.Text,
		Category: &category,
		Color:    &s.Color,
		Size:     &s.Size,
		TargetY:  &s.TargetY,
	}
}

// Encode serializes snapshots in order.
func Encode(snapshots []balloon.Snapshot) ([]byte, error) {
	records := make([]Record, len(snapshots))
	for i, s := range snapshots {
		records[i] = recordOf(s)
	}
	return json.Marshal(records)
}

// Decode parses the list. Only a list that is not a JSON array fails as a
// whole; an element that does not parse becomes a record whose Snapshot
// reports the problem.
func Decode(data []byte) ([]Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("storage: decode balloons: %w", err)
	}
	records := make([]Record, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &records[i]); err != nil {
			records[i] = Record{err: fmt.Errorf("%w: %v", errMalformed, err)}
		}
	}
	return records, nil
}

// Snapshot converts the record, returning a *balloon.RestoreError naming the
// first missing or invalid field.
func (r Record) Snapshot(index int) (balloon.Snapshot, error) {
	fail := func(field string, err error) (balloon.Snapshot, error) {
		return balloon.Snapshot{}, &balloon.RestoreError{Index: index, Field: field, Err: err}
	}
	if r.err != nil {
		return fail("record", r.err)
	}
	if r.Text == nil {
		return fail("text", balloon.ErrMissingField)
	}
	if r.Color == nil {
		return fail("color", balloon.ErrMissingField)
	}
	if r.Size == nil {
		return fail("size", balloon.ErrMissingField)
	}
	if r.TargetY == nil {
		return fail("targetY", balloon.ErrMissingField)
	}
	if r.Category == nil {
		return fail("category", balloon.ErrMissingField)
	}
	category, err := balloon.ParseCategory(*r.Category)
	if err != nil {
		return fail("category", err)
	}
	s := balloon.Snapshot{
		Text:     *r.Text,
		Category: category,
		Color:    *r.Color,
		Size:     *r.Size,
		TargetY:  *r.TargetY,
	}
	if err := s.Validate(); err != nil {
		var rerr *balloon.RestoreError
		if errors.As(err, &rerr) {
			rerr.Index = index
		}
		return balloon.Snapshot{}, err
	}
	return s, nil
}

// Balloons keeps the record list under one key of a KV.
type Balloons struct {
	kv  KV
	key string
}

func NewBalloons(kv KV, key string) *Balloons {
	return &Balloons{kv: kv, key: key}
}

func (b *Balloons) Save(snapshots []balloon.Snapshot) error {
	data, err := Encode(snapshots)
	if err != nil {
		return err
	}
	return b.kv.Put(b.key, data)
}

// Load returns the stored records. A missing key is an empty list.
func (b *Balloons) Load() ([]Record, error) {
	data, err := b.kv.Get(b.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
