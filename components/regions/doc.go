// Package regions ships a drop-in net/http handler that answers dynamic
// option lookups keyed by a dependency value, such as the states of a
// selected country. Forms that declare a dynamicOptions source can point
// their endpoint at this component.
package regions
