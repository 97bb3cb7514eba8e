package aggregate

import "fmt"

// syntaxKindNames maps the compiler's numeric node-kind codes to readable
// labels. The table covers the kinds the type checker reports positions
// for; anything else renders as SyntaxKind(<code>).
var syntaxKindNames = map[int]string{
	80:  "Identifier",
	169: "Parameter",
	172: "PropertyDeclaration",
	174: "MethodDeclaration",
	176: "Constructor",
	177: "GetAccessor",
	178: "SetAccessor",
	183: "TypeReference",
	184: "FunctionType",
	187: "TypeLiteral",
	192: "UnionType",
	193: "IntersectionType",
	194: "ConditionalType",
	199: "IndexedAccessType",
	200: "MappedType",
	209: "ArrayLiteralExpression",
	210: "ObjectLiteralExpression",
	211: "PropertyAccessExpression",
	212: "ElementAccessExpression",
	213: "CallExpression",
	214: "NewExpression",
	215: "TaggedTemplateExpression",
	217: "ParenthesizedExpression",
	218: "FunctionExpression",
	219: "ArrowFunction",
	226: "BinaryExpression",
	227: "ConditionalExpression",
	228: "TemplateExpression",
	260: "VariableDeclaration",
	262: "FunctionDeclaration",
	263: "ClassDeclaration",
	264: "InterfaceDeclaration",
	265: "TypeAliasDeclaration",
	266: "EnumDeclaration",
	267: "ModuleDeclaration",
	284: "JsxElement",
	285: "JsxSelfClosingElement",
	312: "SourceFile",
}

// SyntaxKindLabel resolves a numeric node-kind code to its label.
func SyntaxKindLabel(kind int) string {
	if name, ok := syntaxKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("SyntaxKind(%d)", kind)
}
