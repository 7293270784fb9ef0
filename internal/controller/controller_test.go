package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"biomas/internal/common"
	"biomas/internal/domain/preferences"
	"biomas/internal/palette"
	"biomas/internal/services"
	"biomas/internal/theme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Load(ctx context.Context) (preferences.RawRecord, bool) {
	args := m.Called(ctx)
	return args.Get(0).(preferences.RawRecord), args.Bool(1)
}

func (m *mockStore) Save(ctx context.Context, record preferences.PreferenceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// slowLoadStore holds Load until release is closed.
type slowLoadStore struct {
	*services.MemoryStore
	release chan struct{}
}

func (s *slowLoadStore) Load(ctx context.Context) (preferences.RawRecord, bool) {
	<-s.release
	return s.MemoryStore.Load(ctx)
}

type recorder struct {
	mu     sync.Mutex
	themes []theme.DerivedTheme
}

func (r *recorder) listen(th theme.DerivedTheme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes = append(r.themes, th)
}

func (r *recorder) all() []theme.DerivedTheme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]theme.DerivedTheme(nil), r.themes...)
}

func waitReady(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case <-c.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not become ready")
	}
}

func newReadyController(t *testing.T, store preferences.Store, opts ...Option) *Controller {
	t.Helper()
	c := New(context.Background(), store, palette.NewRegistry(), opts...)
	waitReady(t, c)
	t.Cleanup(func() { c.Close(context.Background()) })
	return c
}

func TestController_EndToEnd(t *testing.T) {
	store := services.NewMemoryStore(nil)
	c := newReadyController(t, store)

	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, preferences.DefaultRecord(), c.Record())
	assert.Equal(t, "#e8f5e9", c.Theme().Colors.Background)

	c.SetColorMode("altoContraste")

	assert.Equal(t, "#000000", c.Theme().Colors.Background)
	require.NoError(t, c.Flush(context.Background()))

	saves := store.Saves()
	require.Len(t, saves, 1)
	assert.Equal(t, preferences.PreferenceRecord{
		ColorMode:     preferences.ColorModeHighContrast,
		FontScale:     1.0,
		FontFamily:    preferences.FontFamilySystem,
		LibrasEnabled: false,
	}, saves[0])
}

func TestController_ApplyStagedIsAtomic(t *testing.T) {
	staged := preferences.PreferenceRecord{
		ColorMode:     preferences.ColorModeTritanopia,
		FontScale:     1.3,
		FontFamily:    preferences.FontFamilyMonospace,
		LibrasEnabled: true,
	}

	store := new(mockStore)
	store.On("Load", mock.Anything).Return(preferences.RawRecord{}, false).Once()
	store.On("Save", mock.Anything, staged).Return(nil).Once()

	c := newReadyController(t, store)

	rec := &recorder{}
	c.Subscribe(rec.listen)

	c.ApplyStaged(staged)
	require.NoError(t, c.Flush(context.Background()))

	published := rec.all()
	require.Len(t, published, 1)
	assert.Equal(t, staged, published[0].Record())
	assert.Equal(t, "#f9f4e7", published[0].Colors.Background)

	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "Save", 1)
}

func TestController_ThemeBeforeReadyIsDefault(t *testing.T) {
	store := &slowLoadStore{MemoryStore: services.NewMemoryStore(nil), release: make(chan struct{})}
	store.Prime([]byte(`{"colorMode":"protanopia"}`))

	c := New(context.Background(), store, palette.NewRegistry())
	defer c.Close(context.Background())

	assert.Equal(t, StateLoading, c.State())
	assert.True(t, c.Theme().Equal(theme.Derive(preferences.DefaultRecord(), palette.NewRegistry())))

	close(store.release)
	waitReady(t, c)

	assert.Equal(t, preferences.ColorModeProtanopia, c.Theme().ColorMode)
}

func TestController_ReplaysRequestsReceivedWhileLoading(t *testing.T) {
	store := &slowLoadStore{MemoryStore: services.NewMemoryStore(nil), release: make(chan struct{})}
	store.Prime([]byte(`{"colorMode":"deuteranopia","fontScale":1.1,"fontFamily":"System","librasEnabled":false}`))

	c := New(context.Background(), store, palette.NewRegistry())
	defer c.Close(context.Background())

	rec := &recorder{}
	c.Subscribe(rec.listen)

	c.SetFontScale(1.4)
	c.SetLibrasEnabled(true)

	assert.Empty(t, rec.all())
	assert.Equal(t, preferences.DefaultRecord(), c.Record())

	close(store.release)
	waitReady(t, c)
	require.NoError(t, c.Flush(context.Background()))

	expected := preferences.PreferenceRecord{
		ColorMode:     preferences.ColorModeDeuteranopia,
		FontScale:     1.4,
		FontFamily:    preferences.FontFamilySystem,
		LibrasEnabled: true,
	}
	assert.Equal(t, expected, c.Record())

	published := rec.all()
	require.Len(t, published, 3)
	assert.Equal(t, 1.1, published[0].FontScale)
	assert.Equal(t, 1.4, published[1].FontScale)
	assert.False(t, published[1].LibrasEnabled)
	assert.Equal(t, expected, published[2].Record())

	saves := store.Saves()
	require.Len(t, saves, 2)
	assert.Equal(t, expected, saves[1])
}

func TestController_StagedChangesWhileLoadingKeepLoadedFields(t *testing.T) {
	store := &slowLoadStore{MemoryStore: services.NewMemoryStore(nil), release: make(chan struct{})}
	store.Prime([]byte(`{"colorMode":"protanopia","fontScale":1.3,"fontFamily":"monospace","librasEnabled":true}`))

	c := New(context.Background(), store, palette.NewRegistry())
	defer c.Close(context.Background())

	mode := "tritanopia"
	c.ApplyStagedChanges(preferences.RawRecord{ColorMode: &mode})

	close(store.release)
	waitReady(t, c)
	require.NoError(t, c.Flush(context.Background()))

	expected := preferences.PreferenceRecord{
		ColorMode:     preferences.ColorModeTritanopia,
		FontScale:     1.3,
		FontFamily:    preferences.FontFamilyMonospace,
		LibrasEnabled: true,
	}
	assert.Equal(t, expected, c.Record())

	saves := store.Saves()
	require.Len(t, saves, 1)
	assert.Equal(t, expected, saves[0])
}

func TestController_ListenerMayCallSetters(t *testing.T) {
	c := newReadyController(t, services.NewMemoryStore(nil))

	rec := &recorder{}
	var once sync.Once
	c.Subscribe(func(th theme.DerivedTheme) {
		rec.listen(th)
		once.Do(func() { c.SetLibrasEnabled(true) })
	})

	c.SetColorMode(preferences.ColorModeTritanopia)

	done := make(chan struct{})
	go func() {
		c.SetFontScale(1.2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("setter blocked after a listener changed preferences")
	}

	expected := preferences.PreferenceRecord{
		ColorMode:     preferences.ColorModeTritanopia,
		FontScale:     1.2,
		FontFamily:    preferences.FontFamilySystem,
		LibrasEnabled: true,
	}
	assert.Equal(t, expected, c.Record())

	published := rec.all()
	require.Len(t, published, 3)
	assert.Equal(t, preferences.ColorModeTritanopia, published[0].ColorMode)
	assert.False(t, published[0].LibrasEnabled)
	assert.True(t, published[1].LibrasEnabled)
	assert.Equal(t, 1.0, published[1].FontScale)
	assert.Equal(t, expected, published[2].Record())
}

func TestController_RecoversFromCorruptRecord(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected preferences.PreferenceRecord
	}{
		{
			name:     "unparsable",
			data:     "{{{",
			expected: preferences.DefaultRecord(),
		},
		{
			name: "unknown mode and out of range scale",
			data: `{"colorMode":"xyz","fontScale":5,"fontFamily":"monospace","librasEnabled":true}`,
			expected: preferences.PreferenceRecord{
				ColorMode:     preferences.ColorModeDefault,
				FontScale:     preferences.MaxFontScale,
				FontFamily:    preferences.FontFamilyMonospace,
				LibrasEnabled: true,
			},
		},
		{
			name: "missing fields",
			data: `{"librasEnabled":true}`,
			expected: preferences.PreferenceRecord{
				ColorMode:     preferences.ColorModeDefault,
				FontScale:     preferences.DefaultFontScale,
				FontFamily:    preferences.FontFamilySystem,
				LibrasEnabled: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := services.NewMemoryStore(nil)
			store.Prime([]byte(tt.data))

			c := newReadyController(t, store)

			assert.Equal(t, tt.expected, c.Record())
			assert.Empty(t, store.Saves())
		})
	}
}

func TestController_UnreadableStorageUsesDefaults(t *testing.T) {
	store := services.NewMemoryStore(nil)
	store.FailLoads(true)

	c := newReadyController(t, store)

	assert.Equal(t, preferences.DefaultRecord(), c.Record())
}

func TestController_InitialPublication(t *testing.T) {
	store := &slowLoadStore{MemoryStore: services.NewMemoryStore(nil), release: make(chan struct{})}
	c := New(context.Background(), store, palette.NewRegistry())
	defer c.Close(context.Background())

	rec := &recorder{}
	c.Subscribe(rec.listen)

	close(store.release)
	waitReady(t, c)

	published := rec.all()
	require.Len(t, published, 1)
	assert.Equal(t, preferences.DefaultRecord(), published[0].Record())
}

func TestController_SettersClampAndDefault(t *testing.T) {
	c := newReadyController(t, services.NewMemoryStore(nil))

	c.SetFontScale(3)
	assert.Equal(t, 1.6, c.Record().FontScale)

	c.SetFontScale(0.1)
	assert.Equal(t, 0.85, c.Record().FontScale)

	c.SetFontScale(1.23)
	assert.Equal(t, 1.25, c.Record().FontScale)

	c.SetColorMode("protanopia")
	c.SetColorMode("xyz")
	assert.Equal(t, preferences.ColorModeDefault, c.Record().ColorMode)

	c.SetFontFamily("Comic Neue")
	assert.Equal(t, preferences.FontFamily("Comic Neue"), c.Record().FontFamily)

	c.SetFontFamily("")
	assert.Equal(t, preferences.FontFamilySystem, c.Record().FontFamily)

	assert.Equal(t, 33, c.Theme().Scale(theme.HeadingSize))
}

func TestController_UnchangedRecordPublishesNothing(t *testing.T) {
	store := services.NewMemoryStore(nil)
	c := newReadyController(t, store)

	rec := &recorder{}
	c.Subscribe(rec.listen)

	c.SetColorMode(preferences.ColorModeDefault)
	c.SetFontScale(1.0)
	c.SetFontFamily("System")
	c.SetLibrasEnabled(false)
	c.ApplyStaged(preferences.DefaultRecord())

	require.NoError(t, c.Flush(context.Background()))
	assert.Empty(t, rec.all())
	assert.Empty(t, store.Saves())
}

func TestController_SaveFailureKeepsState(t *testing.T) {
	store := services.NewMemoryStore(nil)
	store.FailSaves(common.ErrStorageUnavailable)

	var mu sync.Mutex
	var results []services.SaveResult
	c := newReadyController(t, store, WithSaveHook(func(r services.SaveResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}))

	c.SetFontScale(1.2)
	require.NoError(t, c.Flush(context.Background()))

	assert.Equal(t, 1.2, c.Theme().FontScale)
	assert.Equal(t, StateReady, c.State())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, common.ErrStorageUnavailable)
}

func TestController_Unsubscribe(t *testing.T) {
	c := newReadyController(t, services.NewMemoryStore(nil))

	first, second := &recorder{}, &recorder{}
	unsubscribe := c.Subscribe(first.listen)
	c.Subscribe(second.listen)

	c.SetLibrasEnabled(true)
	unsubscribe()
	unsubscribe()
	c.SetLibrasEnabled(false)

	assert.Len(t, first.all(), 1)
	assert.Len(t, second.all(), 2)
}

func TestController_ListenerMayReadTheme(t *testing.T) {
	c := newReadyController(t, services.NewMemoryStore(nil))

	var seen theme.DerivedTheme
	c.Subscribe(func(th theme.DerivedTheme) {
		seen = c.Theme()
	})

	c.SetColorMode(preferences.ColorModeTritanopia)

	assert.Equal(t, preferences.ColorModeTritanopia, seen.ColorMode)
}

func TestController_ListenerPanicIsContained(t *testing.T) {
	c := newReadyController(t, services.NewMemoryStore(nil))

	rec := &recorder{}
	c.Subscribe(func(theme.DerivedTheme) { panic("boom") })
	c.Subscribe(rec.listen)

	assert.NotPanics(t, func() { c.SetLibrasEnabled(true) })
	assert.Len(t, rec.all(), 1)
}

func TestController_ConcurrentSettersPersistFinalRecord(t *testing.T) {
	store := services.NewMemoryStore(nil)
	c := newReadyController(t, store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.SetFontScale(preferences.MinFontScale + float64((i+j)%16)*preferences.FontScaleStep)
				c.SetLibrasEnabled((i+j)%2 == 0)
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, c.Flush(context.Background()))

	raw, ok := store.Load(context.Background())
	require.True(t, ok)
	assert.Equal(t, c.Record(), preferences.Normalize(raw))
}

func TestController_CloseDrainsSaves(t *testing.T) {
	store := services.NewMemoryStore(nil)
	c := New(context.Background(), store, palette.NewRegistry())
	waitReady(t, c)

	c.SetColorMode(preferences.ColorModeDeuteranopia)
	c.SetFontScale(1.5)

	require.NoError(t, c.Close(context.Background()))

	raw, ok := store.Load(context.Background())
	require.True(t, ok)
	assert.Equal(t, c.Record(), preferences.Normalize(raw))

	c.SetLibrasEnabled(true)
	assert.True(t, c.Record().LibrasEnabled)
	assert.Len(t, store.Saves(), 2)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "unknown", State(42).String())
}
