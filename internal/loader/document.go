package loader

// Document is a circuit description as written in YAML.
type Document struct {
	Circuit    string         `yaml:"circuit"`
	Loc        string         `yaml:"loc,omitempty"`
	Modules    []ModuleDoc    `yaml:"modules,omitempty"`
	ExtModules []ExtModuleDoc `yaml:"extmodules,omitempty"`
}

type ModuleDoc struct {
	Name  string    `yaml:"name"`
	Ports []PortDoc `yaml:"ports,omitempty"`
	Body  []Stmt    `yaml:"body,omitempty"`
	Loc   string    `yaml:"loc,omitempty"`
}

type ExtModuleDoc struct {
	Name    string                 `yaml:"name"`
	Defname string                 `yaml:"defname,omitempty"`
	Params  map[string]interface{} `yaml:"params,omitempty"`
	Ports   []PortDoc              `yaml:"ports,omitempty"`
	Loc     string                 `yaml:"loc,omitempty"`
}

type PortDoc struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
	Type string `yaml:"type"`
	Loc  string `yaml:"loc,omitempty"`
}

type MemPortDoc struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// Stmt is one body statement. Op selects which of the other fields apply.
// Expression fields hold a reference string or a mapping with one of the
// keys prim, const or invalid.
type Stmt struct {
	Op   string `yaml:"op"`
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type,omitempty"`
	Loc  string `yaml:"loc,omitempty"`

	Clock interface{} `yaml:"clock,omitempty"`
	Reset interface{} `yaml:"reset,omitempty"`
	Init  interface{} `yaml:"init,omitempty"`
	Expr  interface{} `yaml:"expr,omitempty"`
	Dest  interface{} `yaml:"dest,omitempty"`
	Src   interface{} `yaml:"src,omitempty"`
	Cond  interface{} `yaml:"cond,omitempty"`

	Then []Stmt `yaml:"then,omitempty"`
	Else []Stmt `yaml:"else,omitempty"`

	Module string `yaml:"module,omitempty"`

	Depth        uint64       `yaml:"depth,omitempty"`
	ReadLatency  int          `yaml:"read-latency,omitempty"`
	WriteLatency *int         `yaml:"write-latency,omitempty"`
	Ports        []MemPortDoc `yaml:"ports,omitempty"`
}
