package urlnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opportunity/discovery-service/internal/urlnorm"
)

func TestCanonical(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://unstop.com/hackathons/x", "https://unstop.com/hackathons/x"},
		{"http://Unstop.COM/hackathons/x/", "https://unstop.com/hackathons/x"},
		{"https://unstop.com:443/a", "https://unstop.com/a"},
		{"http://unstop.com:80/a", "https://unstop.com/a"},
		{"https://unstop.com:8443/a", "https://unstop.com:8443/a"},
		{"https://devfolio.co/e?b=2&a=1#apply", "https://devfolio.co/e?a=1&b=2"},
		{"https://devfolio.co/e?utm_source=x&id=7&fbclid=y", "https://devfolio.co/e?id=7"},
		{"https://mlh.io/", "https://mlh.io"},
		{"https://mlh.io/a/./b/../c", "https://mlh.io/a/c"},
		{"  not a url  ", "not a url"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, urlnorm.Canonical(tc.in), tc.in)
	}
}

func TestRecordID_StableAndLinkOnly(t *testing.T) {
	a := urlnorm.RecordID("https://unstop.com/hackathons/x")
	assert.Len(t, a, 64)
	assert.Equal(t, a, urlnorm.RecordID("https://unstop.com/hackathons/x"))
	assert.Equal(t, a, urlnorm.RecordID("HTTP://unstop.com/hackathons/x/?utm_campaign=feed"))
	assert.NotEqual(t, a, urlnorm.RecordID("https://unstop.com/hackathons/y"))
}
