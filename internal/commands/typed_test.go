package commands_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"scangate/internal/commands"
)

func TestNewTypedRelay_NilExecutePanics(t *testing.T) {
	assert.PanicsWithValue(t,
		"commands: NewTypedRelay requires a non-nil execute action",
		func() { commands.NewTypedRelay[int](commands.NewRequery(), nil) },
	)
}

func TestTypedRelay_StringToIntConversion(t *testing.T) {
	var got int
	cmd := commands.NewTypedRelay(commands.NewRequery(), func(v int) { got = v })

	assert.True(t, cmd.CanExecute("42"))
	assert.NoError(t, cmd.Execute("42"))
	assert.Equal(t, 42, got)
}

func TestTypedRelay_UnconvertibleParameter(t *testing.T) {
	executed := false
	cmd := commands.NewTypedRelay(commands.NewRequery(), func(int) { executed = true })

	// Silent tier: availability check reads as unavailable.
	assert.False(t, cmd.CanExecute("abc"))

	// Hard tier: a forced execution is an argument error.
	err := cmd.Execute("abc")
	assert.ErrorIs(t, err, commands.ErrInvalidParameter)
	assert.False(t, executed)
}

func TestTypedRelay_NilParameter(t *testing.T) {
	t.Run("non-nilable type fails", func(t *testing.T) {
		cmd := commands.NewTypedRelay(commands.NewRequery(), func(int) {})

		assert.False(t, cmd.CanExecute(nil))
		assert.ErrorIs(t, cmd.Execute(nil), commands.ErrInvalidParameter)
	})

	t.Run("pointer type yields vacant value", func(t *testing.T) {
		var got *int
		called := false
		cmd := commands.NewTypedRelay(commands.NewRequery(), func(v *int) {
			called = true
			got = v
		})

		assert.True(t, cmd.CanExecute(nil))
		assert.NoError(t, cmd.Execute(nil))
		assert.True(t, called)
		assert.Nil(t, got)
	})

	t.Run("slice type yields vacant value", func(t *testing.T) {
		cmd := commands.NewTypedRelay(commands.NewRequery(), func([]string) {})
		assert.True(t, cmd.CanExecute(nil))
	})
}

func TestTypedRelay_ExactTypePassesThrough(t *testing.T) {
	type payload struct{ name string }

	var got payload
	cmd := commands.NewTypedRelay(commands.NewRequery(), func(v payload) { got = v })

	assert.True(t, cmd.CanExecute(payload{name: "x"}))
	assert.NoError(t, cmd.Execute(payload{name: "x"}))
	assert.Equal(t, payload{name: "x"}, got)
}

func TestTypedRelay_PredicateRunsOverCoercedValue(t *testing.T) {
	cmd := commands.NewTypedRelay(commands.NewRequery(), func(int) {},
		commands.WithTypedCanExecute(func(v int) bool { return v > 10 }),
	)

	assert.False(t, cmd.CanExecute("7"))
	assert.True(t, cmd.CanExecute("11"))
}

func TestTypedRelay_CustomConverter(t *testing.T) {
	type operatorID string

	var got operatorID
	cmd := commands.NewTypedRelay(commands.NewRequery(), func(v operatorID) { got = v },
		commands.WithConverter(func(parameter any) (operatorID, error) {
			s, ok := parameter.(string)
			if !ok {
				return "", fmt.Errorf("want string, got %T", parameter)
			}
			return operatorID(strings.ToLower(s)), nil
		}),
	)

	assert.NoError(t, cmd.Execute("ADMIN"))
	assert.Equal(t, operatorID("admin"), got)
	assert.False(t, cmd.CanExecute(12))
}

func TestTypedRelay_NamedTypeNeedsConverter(t *testing.T) {
	type level int

	cmd := commands.NewTypedRelay(commands.NewRequery(), func(level) {})

	// Same kind as int, but the default converter does not reach
	// named types.
	assert.False(t, cmd.CanExecute("3"))
	assert.True(t, cmd.CanExecute(level(3)))
}

func TestTypedRelay_DurationConversion(t *testing.T) {
	var got time.Duration
	cmd := commands.NewTypedRelay(commands.NewRequery(), func(v time.Duration) { got = v })

	assert.NoError(t, cmd.Execute("1500ms"))
	assert.Equal(t, 1500*time.Millisecond, got)
}

func TestTypedRelay_SharesRequeryRegistry(t *testing.T) {
	registry := commands.NewRequery()
	typed := commands.NewTypedRelay(registry, func(int) {})
	plain := commands.NewRelay(registry, func() {})

	count := 0
	typed.OnEnablementChanged(func() { count++ })

	plain.RaiseEnablementChanged()
	assert.Equal(t, 1, count)
}
