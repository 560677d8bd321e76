package durak

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := newError(KindWrongActor, "player %d is not the attacker", 2)
	assert.Equal(t, KindWrongActor, KindOf(err))
	assert.Equal(t, "player 2 is not the attacker", err.Error())

	wrapped := fmt.Errorf("attack rejected: %w", err)
	assert.Equal(t, KindWrongActor, KindOf(wrapped))

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "capacity exceeded", KindCapacityExceeded.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
