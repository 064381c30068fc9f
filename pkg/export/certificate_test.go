package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateRendererRender(t *testing.T) {
	renderer := NewCertificateRenderer()

	pdf, err := renderer.Render(Certificate{
		StudentName: "Ada Lovelace",
		CourseTitle: "Go 101",
		TeacherName: "Grace Hopper",
		IssuedAt:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestCertificateRendererRequiresNames(t *testing.T) {
	renderer := NewCertificateRenderer()

	_, err := renderer.Render(Certificate{CourseTitle: "Go 101"})
	assert.Error(t, err)

	_, err = renderer.Render(Certificate{StudentName: "Ada Lovelace"})
	assert.Error(t, err)
}
