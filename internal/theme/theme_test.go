package theme

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockPreference struct {
	darkMode bool
	ok       bool
	loadErr  error
	saveErr  error
	saved    []bool
}

func (m *mockPreference) Load() (bool, bool, error) {
	return m.darkMode, m.ok, m.loadErr
}

func (m *mockPreference) Save(darkMode bool) error {
	m.saved = append(m.saved, darkMode)
	return m.saveErr
}

func Test_Store_Toggle(t *testing.T) {
	// given
	s := NewStore(false)
	var seen []bool
	s.Subscribe(func(st State) { seen = append(seen, st.DarkMode) })
	// when
	first := s.Toggle()
	second := s.Toggle()
	// then
	assert.True(t, first)
	assert.False(t, second)
	assert.False(t, s.DarkMode())
	assert.Equal(t, []bool{true, false}, seen)
}

func Test_Store_Unsubscribe(t *testing.T) {
	// given
	s := NewStore(true)
	notified := 0
	unsubscribe := s.Subscribe(func(State) { notified++ })
	// when
	unsubscribe()
	s.Toggle()
	// then
	assert.Zero(t, notified)
	assert.False(t, s.DarkMode())
}

func Test_InitialDarkMode(t *testing.T) {
	testCases := []struct {
		name          string
		pref          PreferenceStore
		systemDefault bool
		expected      bool
	}{
		{name: "no preference store", pref: nil, systemDefault: true, expected: true},
		{name: "nothing stored", pref: &mockPreference{}, systemDefault: true, expected: true},
		{name: "stored light wins over dark default", pref: &mockPreference{ok: true, darkMode: false}, systemDefault: true, expected: false},
		{name: "stored dark wins over light default", pref: &mockPreference{ok: true, darkMode: true}, systemDefault: false, expected: true},
		{name: "load error falls back to default", pref: &mockPreference{ok: true, darkMode: true, loadErr: errors.New("boom")}, systemDefault: false, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			actual := InitialDarkMode(tc.pref, tc.systemDefault, discard)
			// then
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func Test_PersistOnChange(t *testing.T) {
	// given
	s := NewStore(false)
	pref := &mockPreference{saveErr: errors.New("disk full")}
	stop := PersistOnChange(s, pref, discard)
	// when
	s.Toggle()
	s.Toggle()
	stop()
	s.Toggle()
	// then
	assert.Equal(t, []bool{true, false}, pref.saved)
	assert.True(t, s.DarkMode())
}

func Test_FilePreference(t *testing.T) {
	t.Run("missing file means nothing stored", func(t *testing.T) {
		// given
		pref := NewFilePreference(filepath.Join(t.TempDir(), "theme.yaml"))
		// when
		darkMode, ok, err := pref.Load()
		// then
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, darkMode)
	})

	t.Run("saved value is loaded back", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "nested", "theme.yaml")
		pref := NewFilePreference(path)
		// when
		require.NoError(t, pref.Save(true))
		darkMode, ok, err := NewFilePreference(path).Load()
		// then
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, darkMode)
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "theme.yaml")
		require.NoError(t, os.WriteFile(path, []byte("darkMode: [not, a, bool"), 0o600))
		// when
		_, ok, err := NewFilePreference(path).Load()
		// then
		require.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("toggles persist across stores", func(t *testing.T) {
		// given
		pref := NewFilePreference(filepath.Join(t.TempDir(), "theme.yaml"))
		first := NewStore(InitialDarkMode(pref, false, discard))
		PersistOnChange(first, pref, discard)
		// when
		first.Toggle()
		second := NewStore(InitialDarkMode(pref, false, discard))
		// then
		assert.True(t, second.DarkMode())
	})
}
