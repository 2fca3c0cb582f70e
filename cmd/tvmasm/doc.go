// Command tvmasm assembles mnemonic source into a cell-tree bytecode
// program and, by default, runs it to completion through the engine
// package.
//
// Usage:
//
//	-balance int
//		  account balance in nanotokens, as reported by BALANCE
//	-c
//		  assemble only, do not execute
//	-dump
//		  dump the data stack upon exit
//	-debug
//		  enable DEBUGON/DUMPSTK/PRINTSTR diagnostics and full error traces
//	-gas limit,limitMax,price
//		  gas schedule (default "1000000,1000000,1")
//	-i
//		  read and execute one program per line from stdin, interactively
//	-load filename
//		  run a previously assembled bag of cells instead of compiling source
//	-o filename
//		  save the assembled bag of cells to filename
//	-seed int
//		  seed for the RAND family's generator
//	-stats
//		  print instruction count and elapsed time upon exit
//
// With no positional argument, source is read from stdin. The program
// file name, if given, is also the name reported in compile diagnostics.
//
// -o: saves the compiled cell tree with cell.Save's bag-of-cells framing,
// loadable again with -load without recompiling from source.
//
// -i: each line typed is compiled and run as an independent program in a
// fresh Engine (not a persistent session); this mirrors Ngaro's retro
// REPL in spirit, not in the shared-memory-image sense, since this
// engine's state does not carry between top-level programs the way
// Ngaro's memory image does between words typed at its REPL.
package main
