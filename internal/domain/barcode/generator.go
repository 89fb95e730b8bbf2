// Package barcode genera candidatos de código de barras para equipos.
// Formato: prefijo + últimos 10 dígitos del epoch en milisegundos + 4 dígitos aleatorios.
package barcode

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultPrefix prefijo usado por los códigos del inventario.
const DefaultPrefix = "PS"

const stampModulo = 10_000_000_000 // últimos 10 dígitos

// Generator produce candidatos. El sello de milisegundos es monótono dentro del proceso,
// de modo que dos candidatos del mismo Generator nunca se repiten.
type Generator struct {
	mu     sync.Mutex
	prefix string
	now    func() time.Time
	intn   func(n int) int
	last   int64
}

// Option configura el Generator.
type Option func(*Generator)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRand reemplaza la fuente aleatoria (tests).
func WithRand(intn func(n int) int) Option {
	return func(g *Generator) { g.intn = intn }
}

// NewGenerator construye un generador con el prefijo dado (DefaultPrefix si está vacío).
func NewGenerator(prefix string, opts ...Option) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	g := &Generator{prefix: prefix, now: time.Now, intn: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next devuelve un nuevo candidato.
func (g *Generator) Next() string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	return fmt.Sprintf("%s%010d%04d", g.prefix, ms%stampModulo, g.intn(10000))
}
