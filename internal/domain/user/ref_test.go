package user

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefJSON(t *testing.T) {
	id := uuid.New()

	t.Run("unresolved encodes as id string", func(t *testing.T) {
		data, err := json.Marshal(Unresolved(id))
		require.NoError(t, err)
		assert.JSONEq(t, `"`+id.String()+`"`, string(data))
	})

	t.Run("resolved encodes as summary", func(t *testing.T) {
		data, err := json.Marshal(Resolved(Summary{UserID: id, Username: "alice", DisplayName: "Alice"}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"userId":"`+id.String()+`","username":"alice","displayName":"Alice"}`, string(data))
	})

	t.Run("decodes either variant", func(t *testing.T) {
		var r Ref
		require.NoError(t, json.Unmarshal([]byte(`"`+id.String()+`"`), &r))
		assert.Equal(t, id, r.ID)
		assert.False(t, r.IsResolved())

		require.NoError(t, json.Unmarshal([]byte(`{"userId":"`+id.String()+`","displayName":"Alice"}`), &r))
		assert.Equal(t, id, r.ID)
		require.True(t, r.IsResolved())
		assert.Equal(t, "Alice", r.Summary.DisplayName)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var r Ref
		assert.Error(t, json.Unmarshal([]byte(`"not-a-uuid"`), &r))
		assert.Error(t, json.Unmarshal([]byte(`{"displayName":"x"}`), &r))
	})
}

func TestRefResolve(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()
	summaries := map[uuid.UUID]Summary{known: {UserID: known, Username: "bob"}}

	assert.True(t, Unresolved(known).Resolve(summaries).IsResolved())
	assert.False(t, Unresolved(unknown).Resolve(summaries).IsResolved())
}
