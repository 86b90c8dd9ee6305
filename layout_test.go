package imageloader

import "testing"

func TestGuessInterleaved(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		want  bool
	}{
		{name: "rgb last axis", shape: []int{512, 512, 3}, want: true},
		{name: "rgba last axis", shape: []int{512, 512, 4}, want: true},
		{name: "plain 2d", shape: []int{512, 512}, want: false},
		{name: "2d ending in 3", shape: []int{512, 3}, want: false},
		{name: "channel-first stack", shape: []int{3, 512, 512}, want: false},
		{name: "large last axis", shape: []int{4, 512, 512, 512}, want: false},
		{name: "5d ending in 4", shape: []int{1, 2, 512, 512, 4}, want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := GuessInterleaved(test.shape); got != test.want {
				t.Errorf("GuessInterleaved(%v) = %v, want %v", test.shape, got, test.want)
			}
		})
	}
}

func TestAxisLayout(t *testing.T) {
	tests := []struct {
		name         string
		rank         int
		interleaved  bool
		wantX, wantY int
		wantErr      bool
	}{
		{name: "2d standard", rank: 2, wantX: 1, wantY: 0},
		{name: "4d standard", rank: 4, wantX: 3, wantY: 2},
		{name: "3d interleaved", rank: 3, interleaved: true, wantX: 1, wantY: 0},
		{name: "5d interleaved", rank: 5, interleaved: true, wantX: 3, wantY: 2},
		{name: "1d standard", rank: 1, wantErr: true},
		{name: "2d interleaved", rank: 2, interleaved: true, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			layout, err := newAxisLayout(test.rank, test.interleaved)
			if test.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if layout.xAxis != test.wantX || layout.yAxis != test.wantY {
				t.Errorf("layout x=%d y=%d, want x=%d y=%d", layout.xAxis, layout.yAxis, test.wantX, test.wantY)
			}
		})
	}
}

func TestIsStrictlyDecreasing(t *testing.T) {
	tests := []struct {
		name   string
		shapes [][]int
		want   bool
	}{
		{name: "empty", shapes: [][]int{}, want: true},
		{name: "single", shapes: [][]int{{4, 4}}, want: true},
		{name: "halving", shapes: [][]int{{8, 8}, {4, 4}, {2, 2}}, want: true},
		{name: "equal level", shapes: [][]int{{8, 8}, {8, 8}}, want: false},
		{name: "one axis stalls", shapes: [][]int{{8, 8}, {8, 4}}, want: false},
		{name: "growing", shapes: [][]int{{4, 4}, {8, 8}}, want: false},
		{name: "rank change", shapes: [][]int{{8, 8}, {4}}, want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := isStrictlyDecreasing(test.shapes); got != test.want {
				t.Errorf("isStrictlyDecreasing(%v) = %v, want %v", test.shapes, got, test.want)
			}
		})
	}
}
