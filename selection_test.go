package imageloader

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestSetChannelSelectionsValidation(t *testing.T) {
	tests := []struct {
		name       string
		shape      []int
		chunks     []int
		opts       []Option
		selections []ChannelSelection
		wantErr    bool
	}{
		{
			name:       "three selections on multichannel array",
			shape:      []int{4, 2, 256, 256},
			chunks:     []int{1, 1, 64, 64},
			selections: []ChannelSelection{IndexSelection{0, 0, 0, 0}, IndexSelection{1, 0, 0, 0}, IndexSelection{2, 0, 0, 0}},
		},
		{
			name:       "wrong selection length",
			shape:      []int{4, 256, 256},
			chunks:     []int{1, 64, 64},
			selections: []ChannelSelection{IndexSelection{0, 0}},
			wantErr:    true,
		},
		{
			name:       "two selections on packed array",
			shape:      []int{4, 256, 256},
			chunks:     []int{4, 64, 64},
			selections: []ChannelSelection{IndexSelection{0, 0, 0}, IndexSelection{0, 0, 0}},
			wantErr:    true,
		},
		{
			name:       "two selections on interleaved array",
			shape:      []int{2, 256, 256, 3},
			chunks:     []int{1, 64, 64, 3},
			opts:       []Option{WithInterleaved(true)},
			selections: []ChannelSelection{IndexSelection{0, 0, 0, 0}, IndexSelection{1, 0, 0, 0}},
			wantErr:    true,
		},
		{
			name:       "one selection on packed array",
			shape:      []int{4, 256, 256},
			chunks:     []int{4, 64, 64},
			selections: []ChannelSelection{IndexSelection{0, 0, 0}},
		},
		{
			name:       "nonzero index into chunked axis",
			shape:      []int{4, 256, 256},
			chunks:     []int{4, 64, 64},
			selections: []ChannelSelection{IndexSelection{2, 0, 0}},
			wantErr:    true,
		},
		{
			name:       "nonzero index into singly chunked axis",
			shape:      []int{4, 256, 256},
			chunks:     []int{1, 64, 64},
			selections: []ChannelSelection{IndexSelection{2, 0, 0}},
		},
		{
			name:       "named selection without labels",
			shape:      []int{4, 256, 256},
			chunks:     []int{1, 64, 64},
			selections: []ChannelSelection{NamedSelection{"c": 1}},
			wantErr:    true,
		},
		{
			name:       "named selection with labels",
			shape:      []int{4, 256, 256},
			chunks:     []int{1, 64, 64},
			opts:       []Option{WithDimensionLabels("c", "y", "x")},
			selections: []ChannelSelection{NamedSelection{"c": 1}},
		},
		{
			name:       "unknown dimension name",
			shape:      []int{4, 256, 256},
			chunks:     []int{1, 64, 64},
			opts:       []Option{WithDimensionLabels("c", "y", "x")},
			selections: []ChannelSelection{NamedSelection{"t": 1}},
			wantErr:    true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			loader, err := New([]ChunkStore{newFakeStore(test.shape, test.chunks)}, test.opts...)
			if err != nil {
				t.Fatal(err)
			}
			err = loader.SetChannelSelections(test.selections...)
			if test.wantErr {
				var cfgErr ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("SetChannelSelections() error = %v, want ConfigurationError", err)
				}
			} else if err != nil {
				t.Errorf("SetChannelSelections() unexpected error: %v", err)
			}
		})
	}
}

func TestFailedSetLeavesPreviousSelectionsActive(t *testing.T) {
	loader, err := New([]ChunkStore{newFakeStore([]int{4, 256, 256}, []int{1, 64, 64})})
	if err != nil {
		t.Fatal(err)
	}
	if err := loader.SetChannelSelections(IndexSelection{1, 0, 0}, IndexSelection{2, 0, 0}); err != nil {
		t.Fatal(err)
	}

	if err := loader.SetChannelSelections(IndexSelection{0, 0}); err == nil {
		t.Fatal("expected error for wrong selection length")
	}

	got := loader.ChannelSelections()
	want := [][]int{{1, 0, 0}, {2, 0, 0}}
	if len(got) != len(want) {
		t.Fatalf("ChannelSelections() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("selection %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNamedSelectionResolution(t *testing.T) {
	labels := []string{"t", "c", "z", "y", "x"}
	tests := []struct {
		name    string
		sel     map[string]int
		want    []int
		wantErr bool
	}{
		{
			name: "subset of axes",
			sel:  map[string]int{"c": 2, "t": 1},
			want: []int{1, 2, 0, 0, 0},
		},
		{
			name: "empty selection",
			sel:  map[string]int{},
			want: []int{0, 0, 0, 0, 0},
		},
		{
			name:    "unknown axis",
			sel:     map[string]int{"w": 1},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ResolveNamedSelection(labels, test.sel)
			if test.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, test.want) {
				t.Errorf("ResolveNamedSelection() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestChannelSelectionsReturnsCopies(t *testing.T) {
	loader, err := New([]ChunkStore{newFakeStore([]int{4, 256, 256}, []int{1, 64, 64})})
	if err != nil {
		t.Fatal(err)
	}
	if err := loader.SetChannelSelections(IndexSelection{3, 0, 0}); err != nil {
		t.Fatal(err)
	}

	got := loader.ChannelSelections()
	got[0][0] = 99
	if again := loader.ChannelSelections(); again[0][0] != 3 {
		t.Errorf("mutating the returned set leaked into the loader: %v", again)
	}
}

func TestConcurrentSwapObservesWholeSets(t *testing.T) {
	store := newFakeStore([]int{4, 2, 256, 256}, []int{1, 1, 64, 64})
	loader, err := New([]ChunkStore{store})
	if err != nil {
		t.Fatal(err)
	}

	// Two valid configurations of different sizes. Any tile result must have
	// exactly one of these lengths; a mixed snapshot would show up as some
	// other count.
	one := []ChannelSelection{IndexSelection{0, 0, 0, 0}}
	three := []ChannelSelection{
		IndexSelection{0, 0, 0, 0},
		IndexSelection{1, 0, 0, 0},
		IndexSelection{2, 1, 0, 0},
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			var err error
			if i%2 == 0 {
				err = loader.SetChannelSelections(one...)
			} else {
				err = loader.SetChannelSelections(three...)
			}
			if err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		tiles, err := loader.GetTile(context.Background(), 0, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(tiles) != 1 && len(tiles) != 3 {
			t.Fatalf("observed mixed selection snapshot of size %d", len(tiles))
		}
	}
	close(done)
	wg.Wait()
}
