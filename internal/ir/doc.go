// Package ir provides the value objects that flow through the clause
// builder.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps ir the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - ClauseKind is a closed enumeration bounded by NumKinds
//   - Arg, Operand, Target and Value are sealed interfaces; consumers use
//     exhaustive type switches
//   - Literals are never escaped here - escaping happens once, at render time
//   - Row preserves field order (INSERT column order depends on it)
package ir
