// Package registrytest provides a small fixed registry shaped like the
// Android widget metadata, for tests in other packages.
package registrytest

import (
	"strings"

	"github.com/dhamidi/marksense/registry"
)

const Types = `types:
  - name: android.view.View
  - name: android.view.ViewGroup
    super: android.view.View
  - name: android.widget.TextView
    super: android.view.View
  - name: android.widget.Button
    super: android.widget.TextView
  - name: android.widget.ImageView
    super: android.view.View
  - name: android.widget.ImageButton
    super: android.widget.ImageView
  - name: android.widget.LinearLayout
    super: android.view.ViewGroup
  - name: android.widget.FrameLayout
    super: android.view.ViewGroup
  - name: androidx.constraintlayout.widget.ConstraintLayout
    super: android.view.ViewGroup
  - name: com.example.ui.Button
    super: android.widget.Button
`

const AndroidAttrs = `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <attr name="layout_width" format="dimension">
        <enum name="fill_parent" value="-1" />
        <enum name="match_parent" value="-1" />
        <enum name="wrap_content" value="-2" />
    </attr>
    <attr name="layout_height" format="dimension">
        <enum name="fill_parent" value="-1" />
        <enum name="match_parent" value="-1" />
        <enum name="wrap_content" value="-2" />
    </attr>
    <attr name="gravity">
        <flag name="top" value="0x30" />
        <flag name="bottom" value="0x50" />
        <flag name="left" value="0x03" />
        <flag name="right" value="0x05" />
        <flag name="center_vertical" value="0x10" />
        <flag name="center" value="0x11" />
        <flag name="start" value="0x00800003" />
        <flag name="end" value="0x00800005" />
    </attr>
    <attr name="orientation">
        <enum name="horizontal" value="0" />
        <enum name="vertical" value="1" />
    </attr>

    <declare-styleable name="View">
        <attr name="id" format="reference" />
        <attr name="padding" format="dimension" />
        <attr name="visibility">
            <enum name="visible" value="0" />
            <enum name="invisible" value="1" />
            <enum name="gone" value="2" />
        </attr>
    </declare-styleable>
    <declare-styleable name="TextView">
        <attr name="text" format="string" />
        <attr name="gravity" />
        <attr name="width" format="dimension" />
    </declare-styleable>
    <declare-styleable name="LinearLayout">
        <attr name="orientation" />
        <attr name="gravity" />
    </declare-styleable>
    <declare-styleable name="ViewGroup_Layout">
        <attr name="layout_width" />
        <attr name="layout_height" />
    </declare-styleable>
    <declare-styleable name="ViewGroup_MarginLayout">
        <attr name="layout_width" />
        <attr name="layout_marginStart" format="dimension" />
    </declare-styleable>
    <declare-styleable name="LinearLayout_Layout">
        <attr name="layout_weight" format="float" />
        <attr name="layout_gravity">
            <flag name="top" value="0x30" />
            <flag name="bottom" value="0x50" />
            <flag name="center" value="0x11" />
        </attr>
    </declare-styleable>
</resources>
`

const AppAttrs = `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <declare-styleable name="ConstraintLayout_Layout">
        <attr name="layout_constraintTop_toTopOf" format="reference">
            <enum name="parent" value="0" />
        </attr>
        <attr name="layout_constraintStart_toStartOf" format="reference">
            <enum name="parent" value="0" />
        </attr>
    </declare-styleable>
    <declare-styleable name="Button">
        <attr name="cornerRadius" format="dimension" />
        <attr name="icon" format="reference" />
    </declare-styleable>
</resources>
`

// Registry builds the fixture registry. It panics if the fixture does not
// load.
func Registry() *registry.Registry {
	types, err := registry.LoadTypes(strings.NewReader(Types))
	if err != nil {
		panic(err)
	}
	android, err := registry.LoadAttributes(strings.NewReader(AndroidAttrs), "android")
	if err != nil {
		panic(err)
	}
	app, err := registry.LoadAttributes(strings.NewReader(AppAttrs), "app")
	if err != nil {
		panic(err)
	}

	groups := append(android.Groups, app.Groups...)
	fallback := append(android.Fallback, app.Fallback...)
	return registry.New(types, groups, fallback)
}

// Store returns a Store holding the fixture registry.
func Store() *registry.Store {
	return registry.NewStore(Registry())
}
