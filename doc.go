// Package penaltymodel synthesizes quadratic energy functions ("penalty
// models") that embed combinatorial constraints into optimization
// landscapes solvable by energy-minimization hardware or heuristics.
//
// 🚀 What is a penalty model?
//
//	Given a graph of binary or spin variables and a truth table over a
//	designated subset of them (the decision variables), a penalty model is
//	a quadratic energy function whose ground states realize exactly the
//	feasible rows of the table, with every infeasible assignment lifted
//	above ground by at least a classical gap.
//
// The module is organized as one package per concern:
//
//	graph/   — undirected simple graphs over string-labeled variables
//	bqm/     — binary quadratic model container (spin or binary vartype)
//	penalty/ — Specification & Model types, relabeling, strategy dispatch
//	lpgen/   — linear-programming synthesis engine (maximizes the gap)
//	balance/ — reshapes a valid model so all ground states are equiprobable
//	exact/   — brute-force spectrum enumeration (verification oracle)
//
// Quick example, an OR gate over a complete 3-variable graph:
//
//	g := graph.Complete("a", "b", "c")
//	table := penalty.NewTable(
//	    penalty.Config{-1, 1, 1},
//	    penalty.Config{1, -1, 1},
//	    penalty.Config{1, 1, 1},
//	    penalty.Config{-1, -1, -1},
//	)
//	model, gap, err := lpgen.GenerateBQM(g, table, []string{"a", "b", "c"})
//
// All engines are single-threaded and CPU-bound; they rely on exhaustive
// enumeration for verification and are intended for graphs small enough to
// brute-force.
package penaltymodel
