// @title 校园社团后端 API
// @version 1.0
// @description 校园社团平台的后端服务器：课程、活动、考勤与编程挑战。

// @contact.name API支持
// @contact.email support@campusclub.dev

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "campus_club_backend/cmd"

func main() {
	cmd.Execute()
}
