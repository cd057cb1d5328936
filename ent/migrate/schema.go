// Package migrate holds the tables ent creates, derived from the definitions in
// ent/schema.
package migrate

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/verlic4/To-Do-List---your-reminder-todo/ent/schema"
)

var (
	// TasksTable holds the schema information for the "tasks" table.
	TasksTable = mustTable("tasks", "task", entschema.Task{})
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		TasksTable,
	}
)

// NewTable converts an ent schema into a migration table. A field named "id"
// becomes the auto-incrementing primary key. Indexes without a storage key are
// named <prefix>_<field>_<field>..., the way ent names them.
func NewTable(name, prefix string, s ent.Interface) (*schema.Table, error) {
	t := schema.NewTable(name)

	for _, f := range s.Fields() {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}

		c := column(d)
		if d.Name == "id" {
			c.Increment = true
			t.AddPrimary(c)
			continue
		}
		t.AddColumn(c)
	}

	for _, idx := range s.Indexes() {
		d := idx.Descriptor()
		for _, name := range d.Fields {
			if _, ok := t.Column(name); !ok {
				return nil, fmt.Errorf("index on unknown column %q", name)
			}
		}

		idxName := d.StorageKey
		if idxName == "" {
			idxName = prefix + "_" + strings.Join(d.Fields, "_")
		}
		t.AddIndex(idxName, d.Unique, d.Fields)
	}

	return t, nil
}

func column(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Size:     int64(d.Size),
		Unique:   d.Unique,
		Nullable: d.Optional,
	}

	// Func defaults such as time.Now stay out of the DDL; the repository stamps times.
	if d.Info.Type == field.TypeEnum {
		for _, e := range d.Enums {
			c.Enums = append(c.Enums, e.V)
		}
		c.Default = d.Default
	}
	return c
}

func mustTable(name, prefix string, s ent.Interface) *schema.Table {
	t, err := NewTable(name, prefix, s)
	if err != nil {
		panic(fmt.Sprintf("migrate: table %s: %v", name, err))
	}
	return t
}
