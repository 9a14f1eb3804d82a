// Package catalog carga los dos documentos JSON estáticos del sistema:
// el mapa nombre de material -> id y la ficha técnica (sku -> componentes).
// El catálogo se construye una vez al arranque y es inmutable; se inyecta
// por referencia a los consumidores en lugar de vivir en estado global.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
)

// Component es un componente de la ficha técnica: material y cantidad por unidad.
type Component struct {
	Material   string          `json:"material"`
	QtyPerUnit decimal.Decimal `json:"quantidade"`
}

// Catalog contiene los mapeos estáticos cargados al arranque. Solo lecturas.
type Catalog struct {
	materialIDs map[string]string
	boms        map[string][]Component
}

// Load lee los dos documentos JSON y construye el catálogo.
// materialsPath: {nombre_material: id_material}
// bomPath: {sku: [{material, quantidade}, ...]}
func Load(materialsPath, bomPath string) (*Catalog, error) {
	ids, err := loadMaterialIDs(materialsPath)
	if err != nil {
		return nil, err
	}
	boms, err := loadBOMs(bomPath)
	if err != nil {
		return nil, err
	}
	return New(ids, boms), nil
}

// New construye un catálogo a partir de mapas ya cargados. Copia las entradas
// para que el catálogo no comparta estado con el caller.
func New(materialIDs map[string]string, boms map[string][]Component) *Catalog {
	c := &Catalog{
		materialIDs: make(map[string]string, len(materialIDs)),
		boms:        make(map[string][]Component, len(boms)),
	}
	for name, id := range materialIDs {
		c.materialIDs[name] = id
	}
	for sku, comps := range boms {
		c.boms[sku] = append([]Component(nil), comps...)
	}
	return c
}

// ResolveMaterialID devuelve el id de un material por su nombre exacto.
// No hay fallback case-insensitive ni por substring: un match aproximado
// puede debitar el material equivocado.
func (c *Catalog) ResolveMaterialID(name string) (string, bool) {
	id, ok := c.materialIDs[name]
	return id, ok
}

// ResolveBOM devuelve los componentes de la ficha técnica de un SKU,
// en el orden del documento.
func (c *Catalog) ResolveBOM(sku string) ([]Component, bool) {
	comps, ok := c.boms[sku]
	if !ok {
		return nil, false
	}
	return append([]Component(nil), comps...), true
}

// MaterialNames devuelve los nombres de materiales ordenados (para formularios y seed).
func (c *Catalog) MaterialNames() []string {
	names := make([]string, 0, len(c.materialIDs))
	for name := range c.materialIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SKUs devuelve los SKUs con ficha técnica, ordenados.
func (c *Catalog) SKUs() []string {
	skus := make([]string, 0, len(c.boms))
	for sku := range c.boms {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

func loadMaterialIDs(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer material_ids: %w", err)
	}
	var ids map[string]string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parsear material_ids: %w", err)
	}
	return ids, nil
}

func loadBOMs(path string) (map[string][]Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer ficha técnica: %w", err)
	}
	var boms map[string][]Component
	if err := json.Unmarshal(data, &boms); err != nil {
		return nil, fmt.Errorf("parsear ficha técnica: %w", err)
	}
	return boms, nil
}
