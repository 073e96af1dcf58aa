// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/ctscout/ct-cert-search/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLILogger(t *testing.T) {
	t.Run("Printf", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewCLILogger()
		log.SetOutput(&buf)

		log.Printf("searched %d records for %s", 12, "example.com")

		assert.Contains(t, buf.String(), "searched 12 records for example.com")
	})

	t.Run("Println", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewCLILogger()
		log.SetOutput(&buf)

		log.Println("analysis complete")

		assert.Contains(t, buf.String(), "analysis complete")
	})
}

func TestMCPLogger(t *testing.T) {
	t.Run("silent by default output", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, true)

		log.Printf("should not appear")
		log.Println("should not appear either")

		assert.Empty(t, buf.String(), "silent logger must not write")
	})

	t.Run("structured JSON output", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, false)

		log.Printf("fetched %d records", 3)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "fetched 3 records", entry["message"])
	})

	t.Run("nil writer discards", func(t *testing.T) {
		log := logger.NewMCPLogger(nil, false)
		// Must not panic.
		log.Println("dropped")
	})

	t.Run("concurrent writes keep lines intact", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, false)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				log.Printf("message %d", n)
			}(i)
		}
		wg.Wait()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 16)
		for _, line := range lines {
			var entry map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &entry), "every line must be valid JSON")
		}
	})
}
