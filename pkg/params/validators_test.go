package params

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    ValidatorFunc
		value any
		want  bool
	}{
		{"uuid string", IsUUID, "9b2c1c52-7a0a-4c1d-9a9e-2f3f1d8e6b11", true},
		{"uuid bad string", IsUUID, "not-a-uuid", false},
		{"uuid value", IsUUID, uuid.New(), true},
		{"uuid nil", IsUUID, uuid.Nil, false},
		{"uuid wrong type", IsUUID, 42, false},
		{"nonempty string", IsNonEmpty, "x", true},
		{"nonempty empty string", IsNonEmpty, "", false},
		{"nonempty nil", IsNonEmpty, nil, false},
		{"nonempty slice", IsNonEmpty, []int{1}, true},
		{"nonempty empty map", IsNonEmpty, map[string]int{}, false},
		{"nonempty int", IsNonEmpty, 0, true},
		{"positive int", IsPositive, 3, true},
		{"positive zero", IsPositive, 0, false},
		{"positive float", IsPositive, 0.5, true},
		{"positive uint", IsPositive, uint8(1), true},
		{"positive string", IsPositive, "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.value))
		})
	}
}

func TestValidators_Registry(t *testing.T) {
	v := DefaultValidators()
	assert.Equal(t, []string{"nonempty", "positive", "uuid"}, v.Names())

	require.NoError(t, v.Register("even", func(value any) bool {
		n, ok := value.(int)
		return ok && n%2 == 0
	}))
	assert.Error(t, v.Register("even", func(any) bool { return true }))
	assert.Error(t, v.Register("", func(any) bool { return true }))
	assert.Error(t, v.Register("nil", nil))

	fn, err := v.Get("even")
	require.NoError(t, err)
	assert.True(t, fn(4))

	_, err = v.Get("missing")
	var unknown *UnknownValidatorError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, UnknownValidatorErrorCode, CodeOf(err))
}

func TestRule(t *testing.T) {
	email, err := Rule("email")
	require.NoError(t, err)
	assert.True(t, email("dev@example.com"))
	assert.False(t, email("nope"))

	length, err := Rule("min=3,max=5")
	require.NoError(t, err)
	assert.True(t, length("abcd"))
	assert.False(t, length("ab"))

	_, err = Rule("definitely_not_a_rule")
	assert.Error(t, err)
}

func TestAll(t *testing.T) {
	fn := All(IsNonEmpty, func(v any) bool { return v != "forbidden" })
	assert.True(t, fn("ok"))
	assert.False(t, fn(""))
	assert.False(t, fn("forbidden"))
}
