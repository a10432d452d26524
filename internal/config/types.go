package config

type Credentials struct {
	User     string `hcl:"user"`
	Password string `hcl:"password"`
}

type Host struct {
	Hostname string `hcl:"hostname"`
	Port     string `hcl:"port"`
}

type MySQL struct {
	Credentials `hcl:",squash"`
	Host        `hcl:",squash"`
	Database    string `hcl:"database"`
}

type Amqp struct {
	Credentials `hcl:",squash"`
	Host        `hcl:",squash"`
	VirtualHost string `hcl:"virtualHost"`
}

type MongoDB struct {
	Credentials `hcl:",squash"`
	Host        `hcl:",squash"`
	Database    string `hcl:"database"`
	URL         string `hcl:"url"`
}

type Redis struct {
	Host     `hcl:",squash"`
	Password string `hcl:"password"`
}

type SMTP struct {
	Host `hcl:",squash"`
}

// Target is one deployment of the service under test.
type Target struct {
	Name    string `hcl:",key"`
	BaseURL string `hcl:"baseUrl"`
	Timeout string `hcl:"timeout"`
}

// Check describes one HTTP probe. Body assertions are declarative so that
// check lists stay data.
type Check struct {
	Label        string            `hcl:",key"`
	Method       string            `hcl:"method"`
	Path         string            `hcl:"path"`
	ExpectStatus int               `hcl:"expectStatus"`
	Payload      string            `hcl:"payload"`
	Headers      map[string]string `hcl:"headers"`
	Timeout      string            `hcl:"timeout"`

	BodyContains string `hcl:"bodyContains"`
	JSONField    string `hcl:"jsonField"`
	Extract      string `hcl:"extract"`
	RequireData  bool   `hcl:"requireData"`
}

type Fixture struct {
	ID       string                 `hcl:",key"`
	Name     string                 `hcl:"name"`
	Payload  map[string]interface{} `hcl:"payload"`
	Template bool                   `hcl:"template"`
}

type Seed struct {
	Endpoint string `hcl:"endpoint"`
	IDField  string `hcl:"idField"`
}

// Dependency is a backing service of the target that is probed directly.
// Exactly one of the kinds should be set.
type Dependency struct {
	Label      string   `hcl:",key"`
	Filesystem string   `hcl:"filesystem"`
	MySQL      *MySQL   `hcl:"mysql"`
	Redis      *Redis   `hcl:"redis"`
	MongoDB    *MongoDB `hcl:"mongodb"`
	Amqp       *Amqp    `hcl:"amqp"`
	SMTP       *SMTP    `hcl:"smtp"`
}

type Ignition struct {
	Targets      []Target     `hcl:"target"`
	Checks       []Check      `hcl:"check"`
	Fixtures     []Fixture    `hcl:"fixture"`
	Seed         *Seed        `hcl:"seed"`
	Dependencies []Dependency `hcl:"dependency"`
}
