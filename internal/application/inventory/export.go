package inventory

import (
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// Table datos tabulares listos para exportar (una hoja).
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// Encabezados de las planillas (mismos nombres que acepta la importación).
var (
	ProductHeaders = []string{"Ürün Adı", "Marka", "Model", "Kategori", "Durum", "Lokasyon", "Seri No", "Barkod", "Miktar", "Açıklama"}

	MovementHeaders = []string{"Tarih", "Ürün", "Barkod", "Tip", "Miktar", "Lokasyon", "Açıklama", "İşlemi Yapan"}
)

// ProductTable arma la hoja de productos. ids vacío exporta todos; onlyInStock limita a la vista de bodega.
func (s *Service) ProductTable(ids []string, onlyInStock bool) Table {
	snap := s.Snapshot()
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	t := Table{Sheet: "Urunler", Headers: ProductHeaders}
	if onlyInStock {
		t.Sheet = "Depo"
	}
	for _, p := range snap.Products {
		if len(wanted) > 0 {
			if _, ok := wanted[p.ID]; !ok {
				continue
			}
		}
		if onlyInStock && p.Status != entity.StatusInStock {
			continue
		}
		t.Rows = append(t.Rows, []any{
			p.Name, p.Brand, p.Model,
			snap.CategoryName(p.CategoryID),
			entity.StatusLabel(p.Status),
			snap.LocationName(p.LocationID),
			p.SerialNumber, p.Barcode, p.Quantity, p.Description,
		})
	}
	return t
}

// MovementTable arma la hoja de movimientos. userNames traduce IDs de usuario a nombres.
func (s *Service) MovementTable(productID string, userNames map[string]string) Table {
	snap := s.Snapshot()
	products := make(map[string]entity.Product, len(snap.Products))
	for _, p := range snap.Products {
		products[p.ID] = p
	}

	t := Table{Sheet: "Hareketler", Headers: MovementHeaders}
	for _, m := range snap.Movements {
		if productID != "" && m.ProductID != productID {
			continue
		}
		p := products[m.ProductID]
		user := userNames[m.UserID]
		if user == "" {
			user = m.UserID
		}
		t.Rows = append(t.Rows, []any{
			m.CreatedAt.Format("02.01.2006 15:04"),
			p.Name, p.Barcode,
			movementLabel(m.Type), m.Quantity,
			snap.LocationName(m.LocationID),
			m.Description, user,
		})
	}
	return t
}

func movementLabel(t string) string {
	switch t {
	case entity.MovementTypeIn:
		return "Giriş"
	case entity.MovementTypeOut:
		return "Çıkış"
	}
	return t
}
