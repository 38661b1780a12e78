package component

// Foo and Bar are the two kinds used by the boot scenario.
type Foo struct {
	Str string `yaml:"str"`
}

type Bar struct {
	Int int `yaml:"int"`
}
