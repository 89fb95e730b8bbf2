package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Equipos-api/pkg/textnorm"
)

func TestFold_ReglasTurcas(t *testing.T) {
	assert.Equal(t, "ıspanak", textnorm.Fold("ISPANAK"))
	assert.Equal(t, "istanbul depo", textnorm.Fold("  İSTANBUL   Depo "))
}

func TestKey_IgnoraDiacriticos(t *testing.T) {
	assert.Equal(t, textnorm.Key("Ürün Adı"), textnorm.Key("urun adi"))
	assert.Equal(t, textnorm.Key("AÇIKLAMA"), textnorm.Key("Açıklama"))
	assert.Equal(t, "seri no", textnorm.Key("Seri No"))
}

func TestContains(t *testing.T) {
	assert.True(t, textnorm.Contains("Projeksiyon Cihazı", "cihazi"))
	assert.True(t, textnorm.Contains("anything", ""))
	assert.False(t, textnorm.Contains("Hoparlör", "mikser"))
}
