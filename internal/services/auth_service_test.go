package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Sunset Pet Cremation", "sunset-pet-cremation"},
		{"  Harbor   Aftercare  ", "harbor-aftercare"},
		{"Paws & Remember, LLC", "paws-remember-llc"},
		{"ALL CAPS", "all-caps"},
		{"---", ""},
		{"éclair", "clair"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.name), "Slugify(%q)", tc.name)
	}
}
