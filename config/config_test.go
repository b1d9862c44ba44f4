package config

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/solavote/solavote-node/election"
)

func TestDefault(t *testing.T) {
	c := qt.New(t)
	conf := Default()
	c.Assert(conf.Validate(), qt.IsNil)
	c.Assert(conf.Election, qt.Equals, *election.DefaultConfig())
	c.Assert(conf.API.Port, qt.Equals, DefaultAPIPort)
	c.Assert(conf.DatabasePath(), qt.Equals, filepath.Join(conf.Datadir, DatabaseDir))
}

func TestLoad(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "solavote.yml")
	data := []byte(`
datadir: /tmp/solavote
log:
  level: debug
api:
  port: 8000
election:
  maxAdmins: 5
  requireRootOnPrivateStart: true
`)
	c.Assert(os.WriteFile(path, data, 0o600), qt.IsNil)

	conf, err := Load(path)
	c.Assert(err, qt.IsNil)
	c.Assert(conf.Validate(), qt.IsNil)
	c.Assert(conf.Datadir, qt.Equals, "/tmp/solavote")
	c.Assert(conf.Log.Level, qt.Equals, "debug")
	c.Assert(conf.Log.Output, qt.Equals, DefaultLogOutput)
	c.Assert(conf.API.Host, qt.Equals, DefaultAPIHost)
	c.Assert(conf.API.Port, qt.Equals, 8000)
	c.Assert(conf.Election.MaxAdmins, qt.Equals, 5)
	c.Assert(conf.Election.MaxTitleLen, qt.Equals, election.DefaultMaxTitleLen)
	c.Assert(conf.Election.RequireRootOnPrivateStart, qt.IsTrue)
}

func TestValidate(t *testing.T) {
	c := qt.New(t)
	conf := Default()
	conf.Log.Level = "verbose"
	c.Assert(conf.Validate(), qt.IsNotNil)

	conf = Default()
	conf.Election.MaxCiphertextLen = 0
	c.Assert(conf.Validate(), qt.IsNotNil)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	c.Assert(err, qt.IsNotNil)
}
