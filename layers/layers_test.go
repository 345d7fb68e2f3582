package layers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunagakazuo/layergraph/layers"
)

// TestCapability_Has verifies single- and multi-flag capability queries.
func TestCapability_Has(t *testing.T) {
	d := layers.Descriptor{
		Name:    "ip",
		Bottoms: []string{"x"},
		Tops:    []string{"y"},
		Caps:    layers.Params | layers.Backprop,
	}
	assert.True(t, d.Has(layers.Params))
	assert.True(t, d.Has(layers.Backprop))
	assert.True(t, d.Has(layers.Params|layers.Backprop))
	assert.False(t, d.Has(layers.Source))
	assert.False(t, d.Has(layers.Params|layers.Loss), "partial match must not count")
}

// TestCapability_String covers the empty, single, and combined renderings.
func TestCapability_String(t *testing.T) {
	assert.Equal(t, "None", layers.Capability(0).String())
	assert.Equal(t, "Source", layers.Source.String())
	assert.Equal(t, "Sink|Loss|Backprop", (layers.Sink | layers.Loss | layers.Backprop).String())
}

// TestDescriptor_SharingKey verifies that ParamKey overrides the name-based
// default sharing key.
func TestDescriptor_SharingKey(t *testing.T) {
	d := layers.Descriptor{Name: "fc1"}
	assert.Equal(t, "fc1", d.SharingKey())

	d.ParamKey = "encoder"
	assert.Equal(t, "encoder", d.SharingKey())
}

// TestDescriptor_Validate walks the structural invariants: flag/list
// consistency, in-place aliasing, and intra-list duplicates.
func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name string
		d    layers.Descriptor
		want error
	}{
		{
			name: "valid interior layer",
			d:    layers.Descriptor{Name: "ip", Bottoms: []string{"x"}, Tops: []string{"y"}, Caps: layers.Backprop},
			want: nil,
		},
		{
			name: "valid source",
			d:    layers.Descriptor{Name: "data", Tops: []string{"x"}, Caps: layers.Source},
			want: nil,
		},
		{
			name: "valid sink",
			d:    layers.Descriptor{Name: "loss", Bottoms: []string{"y"}, Caps: layers.Sink | layers.Loss},
			want: nil,
		},
		{
			name: "valid in-place",
			d:    layers.Descriptor{Name: "relu", Bottoms: []string{"x"}, Tops: []string{"x"}, Caps: layers.InPlace},
			want: nil,
		},
		{
			name: "empty name",
			d:    layers.Descriptor{Bottoms: []string{"x"}, Tops: []string{"y"}},
			want: layers.ErrEmptyName,
		},
		{
			name: "source with bottoms",
			d:    layers.Descriptor{Name: "data", Bottoms: []string{"x"}, Tops: []string{"y"}, Caps: layers.Source},
			want: layers.ErrSourceHasBottoms,
		},
		{
			name: "non-source without bottoms",
			d:    layers.Descriptor{Name: "ip", Tops: []string{"y"}},
			want: layers.ErrNoBottoms,
		},
		{
			name: "sink with tops",
			d:    layers.Descriptor{Name: "loss", Bottoms: []string{"y"}, Tops: []string{"z"}, Caps: layers.Sink},
			want: layers.ErrSinkHasTops,
		},
		{
			name: "non-sink without tops",
			d:    layers.Descriptor{Name: "ip", Bottoms: []string{"x"}},
			want: layers.ErrNoTops,
		},
		{
			name: "in-place top not aliasing a bottom",
			d:    layers.Descriptor{Name: "relu", Bottoms: []string{"x"}, Tops: []string{"y"}, Caps: layers.InPlace},
			want: layers.ErrInPlaceAlias,
		},
		{
			name: "in-place source",
			d:    layers.Descriptor{Name: "relu", Tops: []string{"x"}, Caps: layers.InPlace | layers.Source},
			want: layers.ErrInPlaceAlias,
		},
		{
			name: "duplicate bottom",
			d:    layers.Descriptor{Name: "cat", Bottoms: []string{"x", "x"}, Tops: []string{"y"}},
			want: layers.ErrDuplicateName,
		},
		{
			name: "duplicate top",
			d:    layers.Descriptor{Name: "split", Bottoms: []string{"x"}, Tops: []string{"y", "y"}},
			want: layers.ErrDuplicateName,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

// TestDescriptor_String verifies the diagnostic rendering.
func TestDescriptor_String(t *testing.T) {
	d := layers.Descriptor{Name: "ip", Bottoms: []string{"x", "w"}, Tops: []string{"y"}}
	assert.Equal(t, "ip(x,w → y)", d.String())
}
