// Package models provides the builtin model-definition sources. Sources are
// handed to a registry explicitly; nothing here registers itself through
// package side effects.
package models

import (
	"github.com/syssam/graft"
	"github.com/syssam/graft/schema"
)

// source is a static model source backed by a fixed set of definition units.
type source struct {
	name string
	defs []*schema.Def
}

func (s source) Name() string { return s.name }

func (s source) ModelDefs() ([]*schema.Def, error) { return s.defs, nil }

// All returns every builtin source, for seeding a registry:
//
//	registry, err := graft.NewRegistry(models.All()...)
func All() []graft.Source {
	return []graft.Source{Base(), File(), Inet(), Tel()}
}

// Base covers the model-independent forms: provenance sources and the
// generic edge form whose endpoints are typed-union references.
func Base() graft.Source {
	return source{name: "base", defs: []*schema.Def{{
		Name: "base",
		Forms: []*schema.FormDef{
			{
				Name: "meta:source",
				Type: "guid",
				Props: []schema.PropDef{
					{Name: "name", Type: "str"},
					{Name: "type", Type: "str"},
				},
			},
			{
				Name: "graph:edge",
				Type: "guid",
				Props: []schema.PropDef{
					{Name: "n1", Type: "ndef"},
					{Name: "n2", Type: "ndef"},
				},
				Refs: schema.Refs{
					Union: []string{"n1", "n2"},
				},
			},
		},
	}}}
}

// File covers file content forms.
func File() graft.Source {
	return source{name: "file", defs: []*schema.Def{{
		Name: "file",
		Forms: []*schema.FormDef{
			{
				Name: "file:bytes",
				Type: "file:bytes",
				Props: []schema.PropDef{
					{Name: "md5", Type: "hex"},
					{Name: "mime", Type: "str"},
					{Name: "name", Type: "str"},
					{Name: "sha256", Type: "hex"},
					{Name: "size", Type: "int"},
				},
			},
		},
	}}}
}

// Inet covers internet infrastructure forms.
func Inet() graft.Source {
	return source{name: "inet", defs: []*schema.Def{{
		Name: "inet",
		Forms: []*schema.FormDef{
			{
				Name: "inet:ipv4",
				Type: "inet:ipv4",
				Props: []schema.PropDef{
					{Name: "asn", Type: "int"},
					{Name: "loc", Type: "loc"},
				},
			},
			{
				Name: "inet:fqdn",
				Type: "inet:fqdn",
				Props: []schema.PropDef{
					{Name: "domain", Type: "inet:fqdn"},
					{Name: "host", Type: "str"},
					{Name: "issuffix", Type: "bool"},
					{Name: "iszone", Type: "bool"},
				},
				Refs: schema.Refs{
					One: []schema.Ref{{Prop: "domain", Form: "inet:fqdn"}},
				},
			},
			{
				Name: "inet:dns:a",
				Type: "comp",
				Props: []schema.PropDef{
					{Name: "fqdn", Type: "inet:fqdn"},
					{Name: "ipv4", Type: "inet:ipv4"},
				},
				Refs: schema.Refs{
					One: []schema.Ref{
						{Prop: "fqdn", Form: "inet:fqdn"},
						{Prop: "ipv4", Form: "inet:ipv4"},
					},
				},
			},
		},
	}}}
}

// Tel covers telephony forms, including the text-message form whose
// classification exercises every reference kind but union.
func Tel() graft.Source {
	return source{name: "tel", defs: []*schema.Def{{
		Name: "tel",
		Forms: []*schema.FormDef{
			{
				Name: "tel:phone",
				Type: "tel:phone",
				Props: []schema.PropDef{
					{Name: "loc", Type: "loc"},
				},
			},
			{
				Name: "tel:txtmesg",
				Type: "guid",
				Props: []schema.PropDef{
					{Name: "body", Type: "str"},
					{Name: "file", Type: "file:bytes"},
					{Name: "from", Type: "tel:phone"},
					{Name: "recipients", Type: "array"},
					{Name: "svctype", Type: "str"},
					{Name: "time", Type: "time"},
					{Name: "to", Type: "tel:phone"},
				},
				Refs: schema.Refs{
					One: []schema.Ref{
						{Prop: "file", Form: "file:bytes"},
						{Prop: "from", Form: "tel:phone"},
						{Prop: "to", Form: "tel:phone"},
					},
					Many: []schema.Ref{
						{Prop: "recipients", Form: "tel:phone"},
					},
				},
			},
		},
	}}}
}
