package template

// Per-attribute statement templates.
var (
	// Column declares a mapped column. The args slot is empty or starts with ", ".
	Column = parse("column", `${.name} = Column(${.type}${.args})`)

	// ForeignKey declares a column that references table.column.
	ForeignKey = parse("foreign_key", `${.name} = Column(${.type}, ForeignKey('${.reference}')${.args})`)

	// Relationship declares an ORM relationship to another class.
	Relationship = parse("relationship", `${.name} = relationship('${.class}'${.args})`)

	// MutableType wraps a dictionary-like type in the change-tracking adapter.
	MutableType = parse("mutable_type", `${.adapter}.as_mutable(${.type})`)

	// Arg renders one keyword argument.
	Arg = parse("arg", `${.name}=${.value}`)

	// FuncArg renders one method parameter defaulting to the UNSET sentinel.
	FuncArg = parse("func_arg", `${.name}=UNSET`)

	// Assignment stores a constructor parameter, turning UNSET into None.
	Assignment = parse("assignment", `self.${.name} = None if ${.name} is UNSET else ${.name}`)

	// GuardedAssignment stores an update parameter only when it was passed.
	GuardedAssignment = parse("guarded_assignment", `
        if ${.name} is not UNSET:
            self.${.name} = ${.name}`)

	// Comparison compares one primary key with the other instance.
	Comparison = parse("comparison", `self.${.name} == other.${.name}`)

	// Evaluator is the format placeholder for one primary key.
	Evaluator = parse("evaluator", `${.name}={${.name}}`)

	// Accessor passes one primary key to str.format.
	Accessor = parse("accessor", `${.name}=self.${.name}`)

	// KeyString converts one primary key to a string for hashing.
	KeyString = parse("key_string", `str(self.${.name})`)

	// NamedImport imports labels from a module.
	NamedImport = parse("named_import", `from ${.module} import ${.labels}`)
)
