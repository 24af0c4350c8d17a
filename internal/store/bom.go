package store

import (
	"context"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
)

// PCBType loads one PCB type.
func (r Reader) PCBType(ctx context.Context, id int64) (models.PCBType, error) {
	var p models.PCBType
	err := r.q.QueryRowContext(ctx, "SELECT id,name,COALESCE(description,''),created_at FROM pcb_types WHERE id=?", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		return p, notFound("pcb type", id, err)
	}
	return p, nil
}

// ListPCBTypes returns every PCB type ordered by name.
func (r Reader) ListPCBTypes(ctx context.Context) ([]models.PCBType, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT id,name,COALESCE(description,''),created_at FROM pcb_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []models.PCBType{}
	for rows.Next() {
		var p models.PCBType
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// BOM returns the component lines of a PCB type ordered by component id. It does not check
// that the PCB type exists; an unknown id simply has no lines.
func (r Reader) BOM(ctx context.Context, pcbTypeID int64) ([]models.BOMComponent, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT c.id, c.name, c.part_number, pc.quantity_per_pcb
		FROM pcb_components pc JOIN components c ON c.id = pc.component_id
		WHERE pc.pcb_type_id = ?
		ORDER BY c.id`, pcbTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := []models.BOMComponent{}
	for rows.Next() {
		var b models.BOMComponent
		if err := rows.Scan(&b.ComponentID, &b.Name, &b.PartNumber, &b.QuantityPerUnit); err != nil {
			return nil, err
		}
		lines = append(lines, b)
	}
	return lines, rows.Err()
}

// CreatePCBType inserts a PCB type.
func (t *Tx) CreatePCBType(ctx context.Context, p models.PCBType) (models.PCBType, error) {
	res, err := t.exec(ctx, "create pcb type",
		"INSERT INTO pcb_types (name,description,created_at) VALUES (?,?,?)", p.Name, p.Description, t.stamp())
	if err != nil {
		return p, err
	}
	p.ID, _ = res.LastInsertId()
	p.CreatedAt = t.stamp()
	return p, nil
}

// UpsertBOMLine sets how many of a component one board of a PCB type consumes.
func (t *Tx) UpsertBOMLine(ctx context.Context, l models.BOMLine) (models.BOMLine, error) {
	_, err := t.exec(ctx, "upsert bom line",
		`INSERT INTO pcb_components (pcb_type_id,component_id,quantity_per_pcb) VALUES (?,?,?)
		ON CONFLICT(pcb_type_id,component_id) DO UPDATE SET quantity_per_pcb=excluded.quantity_per_pcb`,
		l.PCBTypeID, l.ComponentID, l.QuantityPerPCB)
	if err != nil {
		return l, err
	}
	err = t.tx.QueryRowContext(ctx, "SELECT id FROM pcb_components WHERE pcb_type_id=? AND component_id=?",
		l.PCBTypeID, l.ComponentID).Scan(&l.ID)
	return l, err
}
