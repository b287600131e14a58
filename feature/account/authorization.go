package account

import (
	"cmp"
	"slices"
	"time"

	"messenger-core/core/codec"
)

// StorageKey is the persistence key of the unconfirmed authorization list.
const StorageKey = "new_authorizations"

// DefaultAutoconfirmPeriod is how long a login stays unconfirmed before the
// server confirms it on its own.
const DefaultAutoconfirmPeriod = 7 * 24 * time.Hour

// UnconfirmedAuthorization is a login on another device that no session has
// confirmed yet.
type UnconfirmedAuthorization struct {
	Hash     int64  `cbor:"hash"`
	Date     int32  `cbor:"date"`
	Device   string `cbor:"device"`
	Location string `cbor:"location"`
}

// expiresAt returns the moment the server confirms a on its own.
func (a UnconfirmedAuthorization) expiresAt(period time.Duration) time.Time {
	return time.Unix(int64(a.Date), 0).Add(period)
}

// Object is the JSON representation of an unconfirmed authorization.
type Object struct {
	ID          int64  `json:"id,string"`
	LogInDate   int32  `json:"log_in_date"`
	DeviceModel string `json:"device_model"`
	Location    string `json:"location"`
}

// Object returns the JSON representation of a.
func (a UnconfirmedAuthorization) Object() Object {
	return Object{ID: a.Hash, LogInDate: a.Date, DeviceModel: a.Device, Location: a.Location}
}

// authorizations is the list of unconfirmed authorizations ordered by date,
// oldest first.
type authorizations []UnconfirmedAuthorization

func (as authorizations) index(hash int64) int {
	return slices.IndexFunc(as, func(a UnconfirmedAuthorization) bool { return a.Hash == hash })
}

// add inserts a keeping the date order. It reports false when the hash is
// already present.
func (as *authorizations) add(a UnconfirmedAuthorization) bool {
	if as.index(a.Hash) >= 0 {
		return false
	}
	i, _ := slices.BinarySearchFunc(*as, a.Date, func(e UnconfirmedAuthorization, date int32) int {
		if e.Date <= date {
			return -1
		}
		return 1
	})
	*as = slices.Insert(*as, i, a)
	return true
}

func (as *authorizations) remove(hash int64) bool {
	i := as.index(hash)
	if i < 0 {
		return false
	}
	*as = slices.Delete(*as, i, i+1)
	return true
}

// expire drops every entry expired at now and reports how many were dropped.
func (as *authorizations) expire(now time.Time, period time.Duration) int {
	n := 0
	for n < len(*as) && !(*as)[n].expiresAt(period).After(now) {
		n++
	}
	*as = slices.Delete(*as, 0, n)
	return n
}

func (as authorizations) first() *UnconfirmedAuthorization {
	if len(as) == 0 {
		return nil
	}
	a := as[0]
	return &a
}

func (as authorizations) marshal() ([]byte, error) {
	return codec.Marshal([]UnconfirmedAuthorization(as))
}

func unmarshalAuthorizations(blob []byte) (authorizations, error) {
	var as []UnconfirmedAuthorization
	if err := codec.Unmarshal(blob, &as); err != nil {
		return nil, err
	}
	slices.SortStableFunc(as, func(a, b UnconfirmedAuthorization) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return as, nil
}

// DecodeStored decodes a list saved under StorageKey, oldest first.
func DecodeStored(blob []byte) ([]UnconfirmedAuthorization, error) {
	return unmarshalAuthorizations(blob)
}
