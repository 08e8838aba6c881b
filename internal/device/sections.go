package device

import (
	"strings"

	"github.com/minipcdb/device-intake/internal/issueform"
)

var (
	serialLines  = countLines.requiring("type")
	simLines     = typeLines.requiring("count")
	mpcieLines   = countLines.requiring("type")
	displayLines = typeLines
	usbLines     = typeLines
)

func (b *builder) buildGPUs() []GPU {
	v, ok := b.optional(issueform.KeyGPUModels)
	if !ok {
		return nil
	}

	var gpus []GPU
	for _, e := range typeLines.parse(v) {
		gpus = append(gpus, GPU{Type: e["type"], Model: e["model"], VRAM: e["vram"]})
	}
	return gpus
}

func (b *builder) buildStorage() []Storage {
	v, ok := b.optional(issueform.KeyStorageDetails)
	if !ok {
		return nil
	}

	var storage []Storage
	for _, e := range typeLines.parse(v) {
		s := Storage{
			Type:         e["type"],
			FormFactor:   e["form factor"],
			Interface:    e["interface"],
			AltInterface: e["alt interface"],
		}
		if s.Type == "SATA" && s.Interface == "" {
			s.Interface = "SATA"
		}
		storage = append(storage, s)
	}
	return storage
}

func (b *builder) buildNetworking() Networking {
	n := Networking{
		Ethernet: []Ethernet{},
		WiFi:     WiFi{Standard: noneValue, Chipset: noneValue, Bluetooth: noneValue},
	}

	if v, ok := b.optional(issueform.KeyEthernetPorts); ok {
		for _, e := range typeLines.parse(v) {
			eth := Ethernet{
				Ports:     1,
				Speed:     e["type"],
				Chipset:   e["chipset"],
				Interface: e["interface"],
			}
			if count, ok := b.entryInt(issueform.KeyEthernetPorts, e, "count"); ok {
				eth.Ports = count
			}
			n.Ethernet = append(n.Ethernet, eth)
		}
	}

	if v, ok := b.optional(issueform.KeyWiFiStandard); ok {
		n.WiFi.Standard = NormalizeWiFiStandard(v)
	}
	if v, ok := b.optional(issueform.KeyWiFiChipset); ok {
		n.WiFi.Chipset = v
	}
	if v, ok := b.optional(issueform.KeyBluetoothVersion); ok {
		n.WiFi.Bluetooth = v
	}

	return n
}

func (b *builder) buildPorts() Ports {
	var p Ports

	if v, ok := b.optional(issueform.KeyUSBPorts); ok {
		for _, e := range usbLines.parse(v) {
			port := USBPort{
				Type:               e["type"],
				Speed:              e["speed"],
				AltMode:            e["alt mode"],
				MaxResolution:      e["max resolution"],
				ThunderboltVersion: e["thunderbolt"],
			}
			if count, ok := b.entryInt(issueform.KeyUSBPorts, e, "count"); ok {
				port.Count = &count
			}

			if isUSBC(port.Type) {
				p.USBC = append(p.USBC, port)
			} else {
				p.USBA = append(p.USBA, port)
			}
		}
	}

	if v, ok := b.optional(issueform.KeyDisplayPorts); ok {
		for _, e := range displayLines.parse(v) {
			out := DisplayOutput{
				Type:          e["type"],
				Version:       e["version"],
				FormFactor:    e["form factor"],
				MaxResolution: e["max resolution"],
			}
			if count, ok := b.entryInt(issueform.KeyDisplayPorts, e, "count"); ok {
				out.Count = &count
			}

			// Only the first output of each kind is kept
			kind := strings.ToLower(out.Type)
			switch {
			case strings.Contains(kind, "hdmi"):
				if p.HDMI == nil {
					p.HDMI = &out
				}
			case strings.Contains(kind, "displayport"):
				if p.DisplayPort == nil {
					p.DisplayPort = &out
				}
			}
		}
	}

	if v, ok := b.optional(issueform.KeyAudioJacks); ok {
		jacks := b.parseInt(issueform.KeyAudioJacks, v)
		p.AudioJack = &jacks
	}

	p.SDCardReader = b.yesNo(issueform.KeySDCardReader)
	p.MicroSDCardReader = b.yesNo(issueform.KeyMicroSDCardReader)
	p.IRReceiver = b.yesNo(issueform.KeyIRReceiver)

	if v, ok := b.optional(issueform.KeySerialPorts); ok {
		// Only the first complete line is used
		if entries := serialLines.parse(v); len(entries) > 0 {
			e := entries[0]
			if count, ok := b.entryInt(issueform.KeySerialPorts, e, "count"); ok {
				p.Serial = &SerialPort{Count: count, Type: e["type"]}
			}
		}
	}

	return p
}

func (b *builder) yesNo(key string) *bool {
	v, ok := b.optional(key)
	if !ok {
		return nil
	}
	yes := v == "Yes"
	return &yes
}

func isUSBC(portType string) bool {
	t := strings.ToLower(portType)
	return strings.Contains(t, "type-c") || strings.Contains(t, "usb-c") || strings.Contains(t, "usb4")
}

func (b *builder) buildExpansion() *Expansion {
	var x Expansion

	if v, ok := b.optional(issueform.KeySIMSlots); ok {
		for _, e := range simLines.parse(v) {
			if count, ok := b.entryInt(issueform.KeySIMSlots, e, "count"); ok {
				x.SIMSlots = append(x.SIMSlots, SIMSlot{Type: e["type"], Count: count})
			}
		}
	}

	if v, ok := b.optional(issueform.KeyMPCIeSlots); ok {
		for _, e := range mpcieLines.parse(v) {
			if count, ok := b.entryInt(issueform.KeyMPCIeSlots, e, "count"); ok {
				x.MPCIeSlots = append(x.MPCIeSlots, MPCIeSlot{Count: count, Type: e["type"], Note: e["note"]})
			}
		}
	}

	if v, ok := b.optional(issueform.KeyPCIeSlots); ok {
		for _, e := range typeLines.parse(v) {
			x.PCIeSlots = append(x.PCIeSlots, PCIeSlot{
				Type:       e["type"],
				Version:    PCIeVersion(e["type"]),
				FormFactor: e["form factor"],
			})
		}
	}

	if v, ok := b.optional(issueform.KeyOCuLinkPorts); ok {
		ports, err := ParseOCuLink(v)
		if err != nil {
			b.fail(issueform.KeyOCuLinkPorts, v, err)
		}
		x.OCuLinkPorts = ports
	}

	if x.IsEmpty() {
		return nil
	}
	return &x
}

// PCIeVersion derives a slot's PCIe version from its type, e.g. "x4 PCIe 4.0" gives "4.0". Types that do not
// mention PCIe default to "3.0"
func PCIeVersion(slotType string) string {
	if !strings.Contains(slotType, "PCIe") {
		return "3.0"
	}
	tokens := strings.Fields(slotType)
	return tokens[len(tokens)-1]
}
