package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			"column",
			MustExecute(Column, map[string]string{"name": "id", "type": "Integer", "args": ", primary_key=True"}),
			"id = Column(Integer, primary_key=True)",
		},
		{
			"foreign key",
			MustExecute(ForeignKey, map[string]string{"name": "owner_id", "type": "Integer", "reference": "users.id", "args": ""}),
			"owner_id = Column(Integer, ForeignKey('users.id'))",
		},
		{
			"relationship",
			MustExecute(Relationship, map[string]string{"name": "owner", "class": "User", "args": ", uselist=False"}),
			"owner = relationship('User', uselist=False)",
		},
		{
			"mutable type",
			MustExecute(MutableType, map[string]string{"adapter": "MutableDict", "type": "JSONB"}),
			"MutableDict.as_mutable(JSONB)",
		},
		{
			"evaluator keeps format braces",
			MustExecute(Evaluator, map[string]string{"name": "id"}),
			"id={id}",
		},
		{
			"guarded assignment",
			MustExecute(GuardedAssignment, map[string]string{"name": "label"}),
			"\n        if label is not UNSET:\n            self.label = label",
		},
		{
			"named import",
			MustExecute(NamedImport, map[string]string{"module": "sqlalchemy.ext.mutable", "labels": "MutableDict"}),
			"from sqlalchemy.ext.mutable import MutableDict",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestFuncs(t *testing.T) {
	got := MustExecute(Comparator, map[string]string{"func_name": "__ne__", "negation": "not ", "comparisons": "True"})
	assert.Equal(t, "\n    def __ne__(self, other):\n        return not (True)", got)

	got = MustExecute(Representor, map[string]string{"func_name": "repr", "class_name": "User", "evaluators": "id={id}", "accessors": "id=self.id"})
	assert.Equal(t, "\n    def __repr__(self):\n        return \"<User: id={id}>\".format(id=self.id)", got)

	got = MustExecute(ToDict, nil)
	assert.Contains(t, got, `{x: y for x, y in self.__dict__.items() if not x.startswith("_sa")}`)
}

func TestExecuteMissingSlot(t *testing.T) {
	_, err := Execute(Column, map[string]string{"name": "id"})
	require.Error(t, err)
	assert.Panics(t, func() { MustExecute(Hash, map[string]string{}) })
}
