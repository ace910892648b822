package efftext

import (
	"bufio"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/samcharles93/effblob/pkg/eff"
)

// objScale maps effect units to preview units. Y is up.
const objScale = 1.0 / 100

// Marker triangle corners relative to the scaled effect position.
var (
	objCornerA = mgl32.Vec3{0, 10, 10}
	objCornerB = mgl32.Vec3{0, 10, -10}
)

// writeOBJ writes a Wavefront OBJ with one marker triangle per effect, placed
// at the effect's position. The file is a reference preview and is never
// read back.
func writeOBJ(path string, g *eff.EffectGroup, table, group int) error {
	return writeText(path, func(w *bufio.Writer) {
		w.WriteString("# For reference only, scale 1/100, Y is the height\n\n")
		w.WriteString("vn 0.0 0.0 -1.0\n")
		face := 1
		for k := range g.Effects {
			fx := &g.Effects[k]
			p := fx.Motion.Position.Mul(objScale)
			for _, v := range []mgl32.Vec3{p, p.Add(objCornerA), p.Add(objCornerB)} {
				fmt.Fprintf(w, "v %s %s %s\n", fmtFloat(v.X()), fmtFloat(v.Y()), fmtFloat(v.Z()))
			}
			fmt.Fprintf(w, "g Table_%d_Group_%d_EffectIndex_%d_EspID_0x%X_TextureID_0x%X\n",
				table, group, k, fx.Header.EspID, fx.Header.TextureID)
			fmt.Fprintf(w, "f %d//1 %d//1 %d//1\n\n", face, face+1, face+2)
			face += 3
		}
	})
}
