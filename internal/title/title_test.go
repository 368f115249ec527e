package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciidoctorPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="generator" content="Asciidoctor 2.0.20">
<title>Alpha</title>
<style>body { margin: 0 }</style>
</head>
<body class="article">
<div id="header"><h1>Alpha</h1></div>
</body>
</html>
`

func TestExtract(t *testing.T) {
	got, err := Extract(asciidoctorPage)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got)
}

func TestExtract_FirstTitleWins(t *testing.T) {
	page := `<html><head><title>First</title></head><body><svg><title>Second</title></svg></body></html>`

	got, err := Extract(page)
	require.NoError(t, err)
	assert.Equal(t, "First", got)
}

func TestExtract_EntitiesDecoded(t *testing.T) {
	got, err := Extract(`<html><head><title>Install &amp; Run</title></head></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Install & Run", got)
}

func TestExtract_NoTitle(t *testing.T) {
	_, err := Extract(`<html><head></head><body><h1>Alpha</h1></body></html>`)
	assert.ErrorIs(t, err, ErrNoTitle)

	_, err = Extract("")
	assert.ErrorIs(t, err, ErrNoTitle)
}

func TestExtract_EmptyTitleIsPresent(t *testing.T) {
	got, err := Extract(`<html><head><title></title></head></html>`)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
