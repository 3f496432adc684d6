package profile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Settings is an ordered set of configuration variables as found in
// make.defaults and make.conf.
type Settings struct {
	keys   []string
	values map[string]string
}

// NewSettings returns empty settings.
func NewSettings() *Settings {
	return &Settings{values: make(map[string]string)}
}

// Get returns the value of key, "" if unset.
func (s *Settings) Get(key string) string {
	return s.values[key]
}

// Lookup returns the value of key and whether it is set.
func (s *Settings) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key. New keys keep their insertion order.
func (s *Settings) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Keys returns the set keys in insertion order.
func (s *Settings) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Fields returns the value of key split on whitespace.
func (s *Settings) Fields(key string) []string {
	return strings.Fields(s.values[key])
}

// ReadFile merges the assignments of a shell-style variable file.
func (s *Settings) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Read(f, path)
}

// Read parses r as a shell script without running it. Every top-level
// assignment, including "export KEY=value", is expanded against the
// current settings and stored, so USE="${USE} foo" accumulates. Other
// statements are ignored. A failed expansion skips that assignment; all
// such failures are returned together.
func (s *Settings) Read(r io.Reader, name string) error {
	file, err := syntax.NewParser().Parse(r, name)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	cfg := &expand.Config{Env: expand.FuncEnviron(s.Get)}
	var errs []error
	for _, stmt := range file.Stmts {
		for _, as := range assignments(stmt) {
			if err := s.assign(cfg, as); err != nil {
				errs = append(errs, fmt.Errorf("%s:%d: %w", name, as.Pos().Line(), err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Settings) assign(cfg *expand.Config, as *syntax.Assign) error {
	if as.Name == nil || as.Array != nil || as.Index != nil {
		return nil
	}
	value := ""
	if as.Value != nil {
		v, err := expand.Literal(cfg, as.Value)
		if err != nil {
			return err
		}
		value = v
	}
	if as.Append {
		value = s.Get(as.Name.Value) + value
	}
	s.Set(as.Name.Value, value)
	return nil
}

// assignments returns the variable assignments of a plain assignment
// statement or an export/declare clause.
func assignments(stmt *syntax.Stmt) []*syntax.Assign {
	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		if len(cmd.Args) == 0 {
			return cmd.Assigns
		}
	case *syntax.DeclClause:
		var out []*syntax.Assign
		for _, as := range cmd.Args {
			if !as.Naked {
				out = append(out, as)
			}
		}
		return out
	}
	return nil
}
