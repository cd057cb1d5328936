// ent/schema/task.go
package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Task holds the schema definition for the Task entity. ent/migrate builds the
// tasks table from it. Length limits are enforced by the service layer, which
// reads them from configuration.
type Task struct {
	ent.Schema
}

// Fields of the Task.
func (Task) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id").
			Positive().
			Immutable(),

		field.String("title").
			NotEmpty().
			Comment("Task title, trimmed"),

		field.Text("description").
			Optional().
			Nillable().
			Comment("Free-form details, null when blank"),

		field.Enum("status").
			Values("PENDING", "COMPLETED").
			Default("PENDING"),

		field.Time("created_at").
			Default(time.Now).
			Immutable(),

		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),

		field.Time("deleted_at").
			Optional().
			Nillable().
			Comment("Soft-delete marker, set once"),
	}
}

// Indexes of the Task.
func (Task) Indexes() []ent.Index {
	return []ent.Index{
		// Live-task listing filters on both.
		index.Fields("deleted_at", "status"),
		index.Fields("created_at"),
		index.Fields("updated_at"),
	}
}
