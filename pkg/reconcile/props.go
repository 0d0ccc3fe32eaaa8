package reconcile

import (
	"sort"

	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// propRule owns one kind of prop. Rules are tried in table order and the
// first whose match returns true owns the key.
type propRule struct {
	name  string
	match func(tag, key string, value any) bool
	// set brings the live node to value. prev is the previous value when the
	// same rule owned it, else nil.
	set func(n live.Node, key string, value, prev any, st *Stats) error
	// clear undoes everything set did for prev.
	clear func(n live.Node, key string, prev any, st *Stats) error
}

// attrAliases maps builder prop names to attribute names.
var attrAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

// valueElements hold a user-editable value slot.
var valueElements = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
}

var propRules = []propRule{
	{
		name: "skip",
		match: func(_, key string, _ any) bool {
			return key == vdom.PropKey || key == vdom.PropChildren || vdom.IsEventKey(key)
		},
	},
	{
		name: "alias",
		match: func(_, key string, _ any) bool {
			_, ok := attrAliases[key]
			return ok
		},
		set: func(n live.Node, key string, value, _ any, st *Stats) error {
			return setAttr(n, attrAliases[key], vdom.PropString(value), st)
		},
		clear: func(n live.Node, key string, _ any, st *Stats) error {
			return removeAttr(n, attrAliases[key], st)
		},
	},
	{
		name: "style",
		match: func(_, key string, value any) bool {
			if key != "style" {
				return false
			}
			_, ok := vdom.StyleMap(value)
			return ok
		},
		set:   setStyle,
		clear: clearStyle,
	},
	{
		name: "value",
		match: func(tag, key string, _ any) bool {
			return key == "value" && valueElements[tag]
		},
		set: func(n live.Node, key string, value, _ any, st *Stats) error {
			return setValue(n, vdom.PropString(value), st)
		},
		clear: func(n live.Node, key string, _ any, st *Stats) error {
			return setValue(n, "", st)
		},
	},
	{
		name: "bool",
		match: func(_, _ string, value any) bool {
			_, ok := value.(bool)
			return ok
		},
		set: func(n live.Node, key string, value, _ any, st *Stats) error {
			return setBool(n, key, value.(bool), st)
		},
		clear: func(n live.Node, key string, _ any, st *Stats) error {
			return setBool(n, key, false, st)
		},
	},
	{
		name:  "attr",
		match: func(string, string, any) bool { return true },
		set: func(n live.Node, key string, value, _ any, st *Stats) error {
			return setAttr(n, key, vdom.PropString(value), st)
		},
		clear: func(n live.Node, key string, _ any, st *Stats) error {
			return removeAttr(n, key, st)
		},
	},
}

func ruleFor(tag, key string, value any) *propRule {
	for i := range propRules {
		if propRules[i].match(tag, key, value) {
			return &propRules[i]
		}
	}
	return &propRules[len(propRules)-1]
}

func (r *propRule) skips() bool {
	return r.set == nil
}

// applyProps brings n from the state implied by prev to the state implied
// by next. Keys whose owning rule changed are cleared by the old rule
// before the new rule sets them. Keys are visited in sorted order.
func applyProps(n live.Node, tag string, next, prev vdom.Props, st *Stats) error {
	for _, key := range sortedKeys(prev) {
		pv := prev[key]
		if pv == nil {
			continue
		}
		rule := ruleFor(tag, key, pv)
		if rule.skips() {
			continue
		}
		if nv := next[key]; nv != nil && ruleFor(tag, key, nv) == rule {
			continue
		}
		if err := rule.clear(n, key, pv, st); err != nil {
			return err
		}
	}

	for _, key := range sortedKeys(next) {
		nv := next[key]
		if nv == nil {
			continue
		}
		rule := ruleFor(tag, key, nv)
		if rule.skips() {
			continue
		}
		var pv any
		if p := prev[key]; p != nil && ruleFor(tag, key, p) == rule {
			pv = p
		}
		if err := rule.set(n, key, nv, pv, st); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(p vdom.Props) []string {
	if len(p) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// setAttr writes the attribute only when the live value differs.
func setAttr(n live.Node, name, value string, st *Stats) error {
	if cur, ok := n.GetAttribute(name); ok && cur == value {
		return nil
	}
	if err := n.SetAttribute(name, value); err != nil {
		return liveError("set attribute "+name, err)
	}
	st.AttrWrites++
	return nil
}

func removeAttr(n live.Node, name string, st *Stats) error {
	if _, ok := n.GetAttribute(name); !ok {
		return nil
	}
	if err := n.RemoveAttribute(name); err != nil {
		return liveError("remove attribute "+name, err)
	}
	st.AttrRemovals++
	return nil
}

// setValue writes the value slot only when it differs from the live value,
// so an in-progress edit is not clobbered by an unchanged prop.
func setValue(n live.Node, value string, st *Stats) error {
	cur, ok := n.Property("value")
	if ok && vdom.PropString(cur) == value {
		return nil
	}
	if !ok && value == "" {
		return nil
	}
	if err := n.SetProperty("value", value); err != nil {
		return liveError("set value", err)
	}
	st.AttrWrites++
	return nil
}

// setBool keeps the live property and the content attribute in step.
// A true value is written as an empty attribute.
func setBool(n live.Node, key string, on bool, st *Stats) error {
	cur, _ := n.Property(key)
	if b, _ := cur.(bool); b != on {
		if err := n.SetProperty(key, on); err != nil {
			return liveError("set property "+key, err)
		}
		st.AttrWrites++
	}
	if on {
		return setAttr(n, key, "", st)
	}
	return removeAttr(n, key, st)
}

func setStyle(n live.Node, _ string, value, prev any, st *Stats) error {
	next, _ := vdom.StyleMap(value)
	old, _ := vdom.StyleMap(prev)

	for _, name := range sortedStyleKeys(old) {
		if _, ok := next[name]; ok {
			continue
		}
		if err := n.RemoveStyle(name); err != nil {
			return liveError("remove style "+name, err)
		}
		st.AttrRemovals++
	}
	for _, name := range sortedStyleKeys(next) {
		v := next[name]
		if ov, ok := old[name]; ok && ov == v {
			continue
		}
		if err := n.SetStyle(name, v); err != nil {
			return liveError("set style "+name, err)
		}
		st.AttrWrites++
	}
	return nil
}

func clearStyle(n live.Node, _ string, prev any, st *Stats) error {
	old, _ := vdom.StyleMap(prev)
	for _, name := range sortedStyleKeys(old) {
		if err := n.RemoveStyle(name); err != nil {
			return liveError("remove style "+name, err)
		}
		st.AttrRemovals++
	}
	return nil
}

func sortedStyleKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
