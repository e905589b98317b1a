package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpError_ErrorString(t *testing.T) {
	err := NewOpError("garmin.hrv", KindNoData, "2026-10-15", errors.New("404"))
	assert.Equal(t, "garmin.hrv: no_data (date=2026-10-15): 404", err.Error())

	var nilErr *OpError
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestOpError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("fetch: %w", NewOpError("garmin.login", KindAuthentication, "", nil))

	assert.True(t, errors.Is(err, ErrAuthentication))
	assert.False(t, errors.Is(err, ErrNoData))
	assert.True(t, IsKind(err, KindAuthentication))
	assert.False(t, IsKind(err, KindUpstream))
}

func TestIsKind_BareSentinel(t *testing.T) {
	err := fmt.Errorf("respiratory rate: %w", ErrFilterEmpty)
	assert.True(t, IsKind(err, KindFilterEmpty))
	assert.False(t, IsKind(err, KindNoData))
}
