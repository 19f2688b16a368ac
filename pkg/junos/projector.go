package junos

import (
	"iter"
	"regexp"
	"strings"
)

var (
	descriptionKey = regexp.MustCompile(`^description (.*)`)
	addressKey     = regexp.MustCompile(`^address (.*)`)
	unitKey        = regexp.MustCompile(`^unit ([0-9]+)`)
)

const inactivePrefix = "inactive: "

// Address families used as keys of the Addresses inner map.
const (
	FamilyIPv4 = "ip"
	FamilyIPv6 = "ipv6"
)

var families = []struct {
	key    string
	family string
}{
	{"family inet", FamilyIPv4},
	{"family inet6", FamilyIPv6},
}

// findFirst returns the key and capture of the first child of tree whose
// key matches re.
func findFirst(tree *Tree, re *regexp.Regexp) (key, value string, ok bool) {
	for k := range tree.All() {
		if m := re.FindStringSubmatch(k); m != nil {
			return k, m[1], true
		}
	}
	return "", "", false
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// units iterates over the active blocks below an interface.
func units(iface *Tree, skip string) iter.Seq2[string, *Tree] {
	return func(yield func(string, *Tree) bool) {
		for k, v := range iface.All() {
			if k == skip || strings.HasPrefix(k, inactivePrefix) || v.IsLeaf() {
				continue
			}
			if !yield(k, v.Tree()) {
				return
			}
		}
	}
}

// Interfaces maps physical and logical interfaces to their descriptions.
// A physical interface appears under its own name when it has a
// description. Each active unit below it appears as "<ifname>.<unit>", or
// as "<ifname>.<description>" when the block is not a numbered unit.
// Quotes are removed from descriptions.
func Interfaces(lines []string) (map[string]string, error) {
	tree, err := FilterConfig(lines, []string{"interfaces"}, "description .*")
	if err != nil {
		return nil, err
	}
	ret := make(map[string]string)
	for name, v := range tree.All() {
		if v.IsLeaf() {
			continue
		}
		iface := v.Tree()
		descKey, desc, ok := findFirst(iface, descriptionKey)
		if ok && desc != "" {
			ret[name] = stripQuotes(desc)
		} else {
			descKey = ""
		}
		for unit, unitTree := range units(iface, descKey) {
			_, unitDesc, _ := findFirst(unitTree, descriptionKey)
			unitDesc = stripQuotes(unitDesc)
			if m := unitKey.FindStringSubmatch(unit); m != nil {
				ret[name+"."+m[1]] = unitDesc
			} else {
				ret[name+"."+unitDesc] = unitDesc
			}
		}
	}
	return ret, nil
}

// Addresses maps logical interfaces ("<ifname>.<unit>", or
// "<ifname>.unknownunit" for blocks that are not numbered units) to their
// first "family inet" and "family inet6" address, keyed by FamilyIPv4 and
// FamilyIPv6. With withSubnetSize the address keeps its "/len" suffix.
func Addresses(lines []string, withSubnetSize bool) (map[string]map[string]string, error) {
	tree, err := FilterConfig(lines, []string{"interfaces"}, "address .*")
	if err != nil {
		return nil, err
	}
	ret := make(map[string]map[string]string)
	for name, v := range tree.All() {
		if v.IsLeaf() {
			continue
		}
		for unit, unitTree := range units(v.Tree(), "") {
			logical := name + ".unknownunit"
			if m := unitKey.FindStringSubmatch(unit); m != nil {
				logical = name + "." + m[1]
			}
			for _, f := range families {
				fam, ok := unitTree.Get(f.key)
				if !ok || fam.IsLeaf() {
					continue
				}
				_, addr, ok := findFirst(fam.Tree(), addressKey)
				if !ok || addr == "" {
					continue
				}
				if withSubnetSize {
					addr = strings.Split(addr, " ")[0]
				} else {
					addr = strings.Split(addr, "/")[0]
				}
				if ret[logical] == nil {
					ret[logical] = make(map[string]string)
				}
				ret[logical][f.family] = addr
			}
		}
	}
	return ret, nil
}
