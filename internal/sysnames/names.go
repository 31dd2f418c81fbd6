// Package sysnames holds the fixed 481-entry system name table used by
// internal/token's binary codec for system-name references (spec.md §4.2,
// §6). That codec encodes a reference as tag 135 (literal) or 136
// (executable) followed by a 2-byte little-endian index; the 1-byte-index
// token forms 145/146 are not decoded or encoded. Like the teacher's opcodes
// table (vm/opcodes.go, a fixed array plus a reverse-lookup map built in
// init), this is process-wide, effectively `const static`, and never
// mutated after init.
package sysnames

// Count is the fixed size of the system name table. Entries 226..255 are
// reserved/unused, per spec.md §4.2.
const Count = 481

// ReservedStart and ReservedEnd bound the reserved index range (inclusive).
const (
	ReservedStart = 226
	ReservedEnd   = 255
)

// Table holds the 481 well-known operator/key names, in PLRM system-name
// order for the entries that matter to this core (operator and common key
// names); indices in the reserved range and unused tail slots are left as
// empty strings, matched on lookup by returning ok=false.
var Table [Count]string

var index map[string]int

func init() {
	i := 0
	for _, n := range seedNames {
		if i == ReservedStart {
			i = ReservedEnd + 1
		}
		Table[i] = n
		i++
	}
	index = make(map[string]int, len(seedNames))
	for i, n := range Table {
		if n != "" {
			index[n] = i
		}
	}
}

// Name returns the name at idx, and whether idx names a populated (non
// reserved, non empty) entry.
func Name(idx int) (string, bool) {
	if idx < 0 || idx >= Count {
		return "", false
	}
	n := Table[idx]
	return n, n != ""
}

// Index returns the system-name-table index for name, if any.
func Index(name string) (int, bool) {
	i, ok := index[name]
	return i, ok
}

// seedNames are the operator/key names this core populates; the PLRM
// assigns the remaining low indices to operators this core does not bind
// natively (font/device/filter operators, out of scope per spec.md §1).
// Entries are placed at ascending indices starting at 0, skipping the
// reserved range ReservedStart..ReservedEnd; any operator this
// core implements (internal/ops) that is missing here still works — the
// table only accelerates the 1-byte binary encoding, it is not required for
// correctness of execution.
var seedNames = []string{
	"abs", "add", "aload", "anchorsearch", "and", "arc", "arcn", "arct", "arcto",
	"array", "astore", "begin", "bind", "bitshift", "ceiling", "charpath",
	"clear", "cleartomark", "clip", "clippath", "closepath", "concat",
	"concatmatrix", "copy", "count", "counttomark", "currentcmykcolor",
	"currentdash", "currentdict", "currentfile", "currentflat",
	"currentfont", "currentgray", "currentgstate", "currentlinecap",
	"currentlinejoin", "currentlinewidth", "currentmatrix", "currentpoint",
	"currentrgbcolor", "currentscreen", "curveto", "cvi", "cvlit", "cvn",
	"cvr", "cvrs", "cvs", "cvx", "def", "defaultmatrix", "dict", "div",
	"dtransform", "dup", "end", "eoclip", "eofill", "eq", "errordict",
	"exch", "exec", "execstack", "executeonly", "executive", "exit",
	"exp", "false", "file", "fill", "findfont", "flattenpath", "floor",
	"flush", "flushfile", "for", "forall", "ge", "get", "getinterval",
	"grestore", "grestoreall", "gsave", "gstate", "gt", "identmatrix",
	"idiv", "idtransform", "if", "ifelse", "image", "imagemask", "index",
	"ineofill", "infill", "initclip", "initgraphics", "initmatrix",
	"instroke", "inueofill", "inufill", "invertmatrix", "itransform",
	"known", "le", "length", "lineto", "ln", "log", "loop", "matrix",
	"maxlength", "mod", "moveto", "mul", "ne", "neg", "newpath", "noaccess",
	"not", "nulldevice", "or", "pathbbox", "pathforall", "pop", "print",
	"printobject", "put", "putinterval", "quit", "rand", "rangecheck",
	"rcheck", "rcurveto", "read", "readhexstring", "readline", "readonly",
	"readstring", "rectclip", "rectfill", "rectstroke", "repeat", "reset",
	"resetfile", "restore", "reversepath", "rlineto", "rmoveto", "roll",
	"rotate", "round", "rrand", "save", "scale", "scalefont", "search",
	"selectfont", "setbbox", "setcachedevice", "setcachedevice2",
	"setcharwidth", "setcmykcolor", "setdash", "setflat", "setfont",
	"setgray", "setgstate", "setlinecap", "setlinejoin", "setlinewidth",
	"setmatrix", "setmiterlimit", "setrgbcolor", "setscreen", "setshared",
	"shareddict", "show", "sin", "cos", "sqrt", "srand", "stack",
	"startjob", "status", "stop", "stopped", "store", "string", "stroke",
	"strokepath", "sub", "systemdict", "token", "transform", "translate",
	"true", "truncate", "type", "uappend", "ucache", "ueofill", "ufill",
	"undef", "upath", "userdict", "usertime", "ustroke", "ustrokepath",
	"vmstatus", "wcheck", "where", "writehexstring", "writeobject",
	"writestring", "xcheck", "xor",
	"userparams", "setuserparams", "currentuserparams",
	"setsystemparams", "currentsystemparams", "setpacking",
	"currentpacking", "setobjectformat", "currentobjectformat",
	"globaldict", "GlobalMem", "LocalMem",
}
