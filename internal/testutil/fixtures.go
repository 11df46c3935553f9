package testutil

// Sample configuration dumps in the Comware CLI dialect. Together they form a
// small three-tier fleet:
//
//	espcsw03  core, SVIs for 10 and 20, one trunk permitting all VLANs
//	espac01   aggregation, explicit trunk 10 20 30 to 32 with undo of VLAN 1
//	sw1       access, declared list with ranges, access ports and a brief table
const (
	CoreDump = `<espcsw03.corp.local>display current-configuration
#
 sysname espcsw03
#
vlan 1
#
vlan 10
 name Users
#
vlan 20
 description Voice
#
vlan 200 to 210
#
interface Vlan-interface10
 ip address 10.0.10.1 255.255.255.0
#
interface Vlan-interface20
 ip address 10.0.20.1 255.255.255.0
 ip address 10.0.20.254 255.255.255.0 sub
#
interface Ten-GigabitEthernet1/0/49
 port link-type trunk
 undo port trunk permit vlan 1
 port trunk permit vlan all
#
return
<espcsw03.corp.local>
`

	AggDump = `#
 sysname espac01
#
vlan 10
#
vlan 30
 name Printers
#
interface Bridge-Aggregation1
 port link-type trunk
 undo port trunk permit vlan 1
 port trunk permit vlan 10 20 30 to 32
#
interface GigabitEthernet1/0/1
 port link-type hybrid
 port hybrid tagged vlan 40
 port hybrid untagged vlan 50 # cameras
 port hybrid pvid vlan 50
#
return
`

	AccessDump = `<sw1>display vlan
 Total VLANs: 6
 The VLANs include:
 1(default), 20, 50, 100-105,
 300-301
<sw1>display vlan brief
<sw1>display interface brief
Brief information on interfaces in bridge mode:
Link: ADM - administratively down; Stby - standby
Speed: (a) - auto
Duplex: (a)/A - auto; H - half; F - full
Type: A - access; T - trunk; H - hybrid
Interface            Link Speed   Duplex Type PVID Description
GE1/0/1              UP   1G(a)   F(a)   A    20
GE1/0/2              UP   1G(a)   F(a)   A    50   phones
GE1/0/3              DOWN auto    A      A    1
GE1/0/48             UP   1G(a)   F(a)   T    1    uplink

<sw1>display current-configuration interface
interface GigabitEthernet1/0/4
 port access vlan 20
#
interface GigabitEthernet1/0/48
 port link-type trunk
 port trunk permit vlan 20 50
#
`
)

// Fleet returns the sample dumps keyed by file name.
func Fleet() map[string]string {
	return map[string]string{
		"espcsw03.cfg": CoreDump,
		"espac01.log":  AggDump,
		"sw1.txt":      AccessDump,
	}
}
