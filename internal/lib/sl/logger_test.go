package sl_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
)

func TestNew(t *testing.T) {
	t.Run("local пишет текст и debug", func(t *testing.T) {
		var buf bytes.Buffer
		sl.New(sl.EnvLocal, &buf).Debug("hello", "op", "test")
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("prod пишет JSON без debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := sl.New(sl.EnvProd, &buf)
		log.Debug("skipped")
		assert.Empty(t, buf.String())

		log.Info("hello")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
	})
}
