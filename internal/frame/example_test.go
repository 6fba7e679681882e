package frame_test

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/coordframe/internal/frame"
	"github.com/banshee-data/coordframe/internal/geom"
)

func ExampleCompose() {
	leftToRight := frame.NewRigid[frame.LeftCameraSE3, frame.RightCameraSE3](geom.Translate(r3.Vec{X: -0.12}))
	rightT0ToRightT7 := frame.NewDynamicRigid[frame.RightCameraSE3, frame.RightCameraSE3](0, 7, geom.Translate(r3.Vec{Z: -1}))

	chain, err := frame.Compose(leftToRight, rightT0ToRightT7)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(chain)

	p := frame.NewPoint[frame.LeftCameraSE3](0, geom.Translate(r3.Vec{X: 0.5, Z: 4}))
	out, err := chain.Apply(p)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("t=%d %.2f\n", out.Time(), out.Coords().Translation)

	_, err = chain.Apply(frame.NewPoint[frame.LeftCameraSE3](3, geom.Identity()))
	fmt.Println(err)

	// Output:
	// LeftCameraSE3→RightCameraSE3 (dynamic 0→7)
	// t=7 {0.38 0.00 3.00}
	// apply LeftCameraSE3→RightCameraSE3 (dynamic 0→7) to LeftCameraSE3@3: time mismatch: point at t=3, transform expects t=0
}

func ExampleNewPointProjective() {
	k := geom.Intrinsics{Fx: 500, Fy: 500, Cx: 320, Cy: 240}
	project := frame.NewPointProjective[frame.LeftCameraR3, frame.LeftCameraImagePlane](k)

	px, err := project.Apply(frame.NewPoint[frame.LeftCameraR3](2, r3.Vec{X: 1, Y: -1, Z: 5}))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(px)
	// Output: LeftCameraImagePlane@2[420 140]
}
