package barcode_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/domain/barcode"
)

var barcodePattern = regexp.MustCompile(`^PS\d{14}$`)

func TestGenerator_MilCodigosDistintosConFormato(t *testing.T) {
	g := barcode.NewGenerator("")
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code := g.Next()
		require.Regexp(t, barcodePattern, code)
		_, dup := seen[code]
		require.False(t, dup, "código repetido: %s", code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestGenerator_RelojDetenidoYAzarFijo(t *testing.T) {
	fixed := time.UnixMilli(1_712_345_678_901)
	g := barcode.NewGenerator("PS",
		barcode.WithClock(func() time.Time { return fixed }),
		barcode.WithRand(func(int) int { return 7 }),
	)
	first := g.Next()
	second := g.Next()

	assert.Equal(t, "PS23456789010007", first)
	assert.Equal(t, "PS23456789020007", second, "el sello avanza aunque el reloj no")
}

func TestGenerator_TomaUltimosDiezDigitos(t *testing.T) {
	g := barcode.NewGenerator("PS",
		barcode.WithClock(func() time.Time { return time.UnixMilli(98_765_432_109_876) }),
		barcode.WithRand(func(int) int { return 42 }),
	)
	assert.Equal(t, "PS54321098760042", g.Next())
}
