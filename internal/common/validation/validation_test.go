package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStreamName(t *testing.T) {
	assert.NoError(t, ValidateStreamName("my stream"))
	assert.Error(t, ValidateStreamName("  "))
	assert.Error(t, ValidateStreamName("line\nbreak"))
	assert.Error(t, ValidateStreamName(strings.Repeat("a", MaxStreamNameLength+1)))
}

func TestValidateContentHash(t *testing.T) {
	assert.NoError(t, ValidateContentHash("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"))
	assert.NoError(t, ValidateContentHash("bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"))
	assert.Error(t, ValidateContentHash(""))
	assert.Error(t, ValidateContentHash("Qm/../etc"))
	assert.Error(t, ValidateContentHash(strings.Repeat("a", MaxContentHashLength+1)))
}

func TestValidateContentURI(t *testing.T) {
	assert.NoError(t, ValidateContentURI("ipfs://QmHash"))
	assert.NoError(t, ValidateContentURI("https://example.com/video.mp4"))
	for _, bad := range []string{"", "QmHash", "ipfs://", "://x"} {
		assert.Error(t, ValidateContentURI(bad), bad)
	}
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole("creator"))
	assert.Error(t, ValidateRole(" "))
	assert.Error(t, ValidateRole(strings.Repeat("r", MaxRoleLength+1)))
}
