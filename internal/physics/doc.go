// Package physics provides the reaction-kinetics model of an adiabatic
// ammonia-synthesis bed.
//
// [Ammonia] implements [dynamo.System] over the six-component state
// [N2, H2, NH3, Ar, CH4, T]: the first five entries are partial pressures,
// the last is the gas temperature in Kelvin. The integration coordinate is
// the position along the bed.
//
//	model := physics.NewAmmonia(200, catalyst.KMIR, physics.BedSetup{
//	    Beta: -2.691122, TStart: 713, TSlope: 10, TMax: 727,
//	})
//	dy := model.Derive(0, y)
//	if model.ShouldStop(dy) { ... }
//
// Raw reaction rates are multiplied by empirical fugacity coefficients
// (see [Fugacity]) to account for non-ideal gas behavior at synthesis pressure.
package physics
