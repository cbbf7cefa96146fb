package template

// Member function templates. Each starts with a newline so that members
// placed on consecutive lines of Class are separated by a blank line.
var (
	Init = parse("init", `
    def __init__(self${.args}):
        ${.assignments}`)

	Add = parse("add", `
    def add(self, session):
        session.add(self)`)

	Delete = parse("delete", `
    def delete(self, session):
        session.delete(self)`)

	Update = parse("update", `
    def update(self${.args}):
        # Only the arguments that are passed are applied, so None and
        # other falsy values can be set explicitly. Primary keys are
        # never updated.${.assignments}`)

	ToDict = parse("to_dict", `
    def to_dict(self):
        return {x: y for x, y in self.__dict__.items() if not x.startswith("_sa")}`)

	GetProxyCls = parse("get_proxy_cls", `
    def get_proxy_cls(self):
        # ${.class_name}Proxy is a namedtuple holding the column values,
        # usable independently of the sqlalchemy session.
        keys = self.to_dict().keys()
        name = "${.class_name}Proxy"
        return namedtuple(name, keys)`)

	ToProxy = parse("to_proxy", `
    def to_proxy(self):
        cls = self.get_proxy_cls()
        return cls(**self.to_dict())`)

	FromProxy = parse("from_proxy", `
    @classmethod
    def from_proxy(cls, proxy):
        return cls(**proxy._asdict())`)

	Hash = parse("hash", `
    def __hash__(self):
        return hash(${.keys})`)

	// Comparator renders __eq__ and __ne__; negation is empty or "not ".
	Comparator = parse("comparator", `
    def ${.func_name}(self, other):
        return ${.negation}(${.comparisons})`)

	// Representor renders __str__, __unicode__ and __repr__.
	Representor = parse("representor", `
    def __${.func_name}__(self):
        return "<${.class_name}: ${.evaluators}>".format(${.accessors})`)
)
