package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories lets every behavioural test run against each in-process
// implementation.
func storeFactories(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemory() },
		"file": func() Store {
			return NewFile(filepath.Join(t.TempDir(), "nested", "session.json"), nil)
		},
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			gen := s.Generation()

			s.Clear()
			s.Clear()

			_, ok := s.Read()
			assert.False(t, ok)
			assert.Equal(t, gen, s.Generation(), "clearing an empty store must not change it")
		})
	}
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	cases := []Session{
		{TokenValue: "abc", TokenType: "bearer"},
		{TokenValue: "eyJhbGciOiJIUzI1NiJ9.e30.sig", TokenType: "Bearer"},
		{TokenValue: "  spaced  ", TokenType: "x"},
	}

	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			for _, want := range cases {
				s.Write(want)
				got, ok := s.Read()
				require.True(t, ok)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestStore_WriteOverwrites(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			s.Write(Session{TokenValue: "first", TokenType: "bearer"})
			s.Write(Session{TokenValue: "second", TokenType: "bearer"})

			got, ok := s.Read()
			require.True(t, ok)
			assert.Equal(t, "second", got.TokenValue)
		})
	}
}

func TestStore_PartialStateIsAbsent(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()

			s.Write(Session{TokenValue: "only-token"})
			_, ok := s.Read()
			assert.False(t, ok)

			s.Write(Session{TokenType: "bearer"})
			_, ok = s.Read()
			assert.False(t, ok)
		})
	}
}

func TestStore_GenerationAdvancesOnMutation(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			g0 := s.Generation()

			s.Write(Session{TokenValue: "t", TokenType: "k"})
			g1 := s.Generation()
			assert.Greater(t, g1, g0)

			s.Clear()
			assert.Greater(t, s.Generation(), g1)
		})
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Write(Session{TokenValue: "t", TokenType: "k"})
		}()
		go func() {
			defer wg.Done()
			m.Read()
			m.Clear()
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, m.Generation(), uint64(50))
}

func TestFile_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	NewFile(path, nil).Write(Session{TokenValue: "abc", TokenType: "bearer"})

	reopened := NewFile(path, nil)
	got, ok := reopened.Read()
	require.True(t, ok)
	assert.Equal(t, Session{TokenValue: "abc", TokenType: "bearer"}, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_CorruptFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	f := NewFile(path, nil)
	_, ok := f.Read()
	assert.False(t, ok)

	f.Write(Session{TokenValue: "abc", TokenType: "bearer"})
	_, ok = f.Read()
	assert.True(t, ok)
}

func TestExpiry(t *testing.T) {
	t.Run("jwt with exp", func(t *testing.T) {
		exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "admin",
			"exp": exp.Unix(),
		}).SignedString([]byte("any-secret"))
		require.NoError(t, err)

		got, ok := Expiry(token)
		require.True(t, ok)
		assert.True(t, exp.Equal(got))
	})

	t.Run("opaque token", func(t *testing.T) {
		_, ok := Expiry("abc")
		assert.False(t, ok)
	})

	t.Run("jwt without exp", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin"}).
			SignedString([]byte("any-secret"))
		require.NoError(t, err)

		_, ok := Expiry(token)
		assert.False(t, ok)
	})
}

func TestSession_AuthorizationHeader(t *testing.T) {
	assert.Equal(t, "Bearer abc", Session{TokenValue: "abc", TokenType: "bearer"}.AuthorizationHeader())
}
