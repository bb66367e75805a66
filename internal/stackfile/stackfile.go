// Package stackfile builds packets from a YAML header-stack description,
// the input format of the `switchyard build` command.
package stackfile

import (
	"encoding/hex"
	"fmt"
	"net"
	"net/netip"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/liulalala/switchyard/pkg/packet"
)

// Document is a parsed stack description: headers in wire order.
type Document struct {
	Headers []HeaderSpec `yaml:"headers"`
}

// HeaderSpec describes one header. Type selects the variant; the remaining
// fields apply only to the variants that carry them.
type HeaderSpec struct {
	Type string `yaml:"type"`

	// ethernet
	Src       string `yaml:"src"`
	Dst       string `yaml:"dst"`
	EtherType string `yaml:"ethertype"`

	// chained headers
	NextHeader string `yaml:"nextheader"`

	// ipv6
	SrcIP    string `yaml:"srcip"`
	DstIP    string `yaml:"dstip"`
	HopLimit *uint8 `yaml:"hoplimit"`

	// fragment
	ID     uint32 `yaml:"id"`
	Offset uint16 `yaml:"offset"`
	MF     bool   `yaml:"mf"`

	// route
	Address string `yaml:"address"`

	// mobility
	MHType uint8 `yaml:"mhtype"`

	// hopbyhop / destination
	Options []OptionSpec `yaml:"options"`

	// icmpv6 / raw
	Payload string `yaml:"payload"` // hex
}

// OptionSpec describes one TLV option inside an options header.
type OptionSpec struct {
	Kind    string `yaml:"kind"`
	N       int    `yaml:"n"`
	Value   uint16 `yaml:"value"`
	Limit   uint8  `yaml:"limit"`
	Length  uint32 `yaml:"length"`
	Address string `yaml:"address"`
}

// Load reads and parses a stack description file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a YAML stack description.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse stack file: %w", err)
	}
	if len(doc.Headers) == 0 {
		return nil, fmt.Errorf("stack file declares no headers")
	}
	return &doc, nil
}

// Build constructs the packet a document describes.
func Build(doc *Document) (*packet.Packet, error) {
	pkt := packet.New()
	for i, spec := range doc.Headers {
		h, err := buildHeader(spec)
		if err != nil {
			return nil, fmt.Errorf("header %d (%s): %w", i, spec.Type, err)
		}
		pkt.Add(h)
	}
	return pkt, nil
}

func buildHeader(spec HeaderSpec) (packet.Header, error) {
	switch spec.Type {
	case "ethernet":
		return buildEthernet(spec)
	case "ipv6":
		return buildIPv6(spec)
	case "fragment":
		frag := packet.NewIPv6Fragment(spec.ID, spec.Offset, spec.MF)
		return frag, setNextHeader(frag, spec.NextHeader)
	case "route":
		addr, err := netip.ParseAddr(spec.Address)
		if err != nil {
			return nil, fmt.Errorf("bad route address %q: %w", spec.Address, err)
		}
		route, err := packet.NewIPv6Route(addr)
		if err != nil {
			return nil, err
		}
		return route, setNextHeader(route, spec.NextHeader)
	case "mobility":
		m := packet.NewIPv6Mobility()
		m.MHType = spec.MHType
		return m, setNextHeader(m, spec.NextHeader)
	case "hopbyhop":
		h := packet.NewIPv6HopOption()
		if err := addOptions(h.AddOption, spec.Options); err != nil {
			return nil, err
		}
		return h, setNextHeader(h, spec.NextHeader)
	case "destination":
		h := packet.NewIPv6DestinationOption()
		if err := addOptions(h.AddOption, spec.Options); err != nil {
			return nil, err
		}
		return h, setNextHeader(h, spec.NextHeader)
	case "icmpv6":
		h := packet.NewICMPv6()
		if spec.Payload != "" {
			body, err := hex.DecodeString(spec.Payload)
			if err != nil {
				return nil, fmt.Errorf("bad icmpv6 payload hex: %w", err)
			}
			h.Body = body
		}
		return h, nil
	case "raw":
		data, err := hex.DecodeString(spec.Payload)
		if err != nil {
			return nil, fmt.Errorf("bad raw payload hex: %w", err)
		}
		return packet.NewRawPayload(data), nil
	default:
		return nil, fmt.Errorf("unknown header type %q", spec.Type)
	}
}

func buildEthernet(spec HeaderSpec) (*packet.Ethernet, error) {
	eth := packet.NewEthernet()
	if spec.Src != "" {
		mac, err := net.ParseMAC(spec.Src)
		if err != nil {
			return nil, fmt.Errorf("bad src mac %q: %w", spec.Src, err)
		}
		copy(eth.Src[:], mac)
	}
	if spec.Dst != "" {
		mac, err := net.ParseMAC(spec.Dst)
		if err != nil {
			return nil, fmt.Errorf("bad dst mac %q: %w", spec.Dst, err)
		}
		copy(eth.Dst[:], mac)
	}
	switch spec.EtherType {
	case "", "ipv6":
		eth.EtherType = packet.EtherTypeIPv6
	case "ipv4":
		eth.EtherType = packet.EtherTypeIPv4
	case "arp":
		eth.EtherType = packet.EtherTypeARP
	default:
		return nil, fmt.Errorf("unknown ethertype %q", spec.EtherType)
	}
	return eth, nil
}

func buildIPv6(spec HeaderSpec) (*packet.IPv6, error) {
	ip := packet.NewIPv6()
	if spec.SrcIP != "" {
		addr, err := netip.ParseAddr(spec.SrcIP)
		if err != nil {
			return nil, fmt.Errorf("bad srcip %q: %w", spec.SrcIP, err)
		}
		if err := ip.SetSrc(addr); err != nil {
			return nil, err
		}
	}
	if spec.DstIP != "" {
		addr, err := netip.ParseAddr(spec.DstIP)
		if err != nil {
			return nil, fmt.Errorf("bad dstip %q: %w", spec.DstIP, err)
		}
		if err := ip.SetDst(addr); err != nil {
			return nil, err
		}
	}
	if spec.HopLimit != nil {
		ip.HopLimit = *spec.HopLimit
	}
	return ip, setNextHeader(ip, spec.NextHeader)
}

func setNextHeader(h packet.Chainer, name string) error {
	if name == "" {
		return nil
	}
	p, err := packet.ProtocolByName(name)
	if err != nil {
		return err
	}
	return h.SetNextHeader(p)
}

func addOptions(add func(packet.Option), specs []OptionSpec) error {
	for i, spec := range specs {
		o, err := buildOption(spec)
		if err != nil {
			return fmt.Errorf("option %d (%s): %w", i, spec.Kind, err)
		}
		add(o)
	}
	return nil
}

func buildOption(spec OptionSpec) (packet.Option, error) {
	switch spec.Kind {
	case "pad1":
		return &packet.Pad1{}, nil
	case "padn":
		return packet.NewPadN(spec.N), nil
	case "routeralert":
		return packet.NewRouterAlert(spec.Value), nil
	case "tunnellimit":
		return packet.NewTunnelEncapsulationLimit(spec.Limit), nil
	case "jumbo":
		return packet.NewJumboPayload(spec.Length), nil
	case "homeaddress":
		addr, err := netip.ParseAddr(spec.Address)
		if err != nil {
			return nil, fmt.Errorf("bad home address %q: %w", spec.Address, err)
		}
		return packet.NewHomeAddress(addr)
	default:
		return nil, fmt.Errorf("unknown option kind %q", spec.Kind)
	}
}
