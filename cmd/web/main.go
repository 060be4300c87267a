package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketgo/app/account"
	"marketgo/app/admin"
	"marketgo/app/cart"
	"marketgo/app/catalog"
	"marketgo/app/categories"
	"marketgo/app/health"
	"marketgo/app/home"
	"marketgo/app/orders"
	"marketgo/app/seller"
	"marketgo/models"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	session  *scs.SessionManager
	users    *models.UsersRepository

	health          *health.HealthHandler
	home            *home.HomeHandler
	catalog         *catalog.CatalogHandler
	categories      *categories.CategoryHandler
	account         *account.AccountHandler
	cart            *cart.CartHandler
	orders          *orders.OrdersHandler
	sellerDashboard *seller.DashboardHandler
	sellerProducts  *seller.ProductsHandler
	adminDashboard  *admin.DashboardHandler
	adminUsers      *admin.UsersHandler
	adminOrders     *admin.OrdersHandler
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL environment variable not found")
	}

	addr := flag.String("addr", ":4000", "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		errorLog.Fatal(err)
	}
	if err := sqlDB.Ping(); err != nil {
		errorLog.Fatal(err)
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}))
	if err != nil {
		errorLog.Fatal(err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		errorLog.Fatal(err)
	}
	infoLog.Println("connected to database")

	session := scs.New()
	session.Lifetime = 12 * time.Hour

	productsRepo := models.NewProductsRepository(db)
	categoriesRepo := models.NewCategoriesRepository(db)
	cartsRepo := models.NewCartsRepository(db)
	ordersRepo := models.NewOrdersRepository(db)
	usersRepo := models.NewUsersRepository(db)
	statsRepo := models.NewStatsRepository(db)

	app := &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		session:  session,
		users:    usersRepo,

		health:          health.NewHealthHandler(),
		home:            home.NewHomeHandler(productsRepo, categoriesRepo),
		catalog:         catalog.NewCatalogHandler(productsRepo),
		categories:      categories.NewCategoryHandler(categoriesRepo),
		account:         account.NewAccountHandler(usersRepo, session),
		cart:            cart.NewCartHandler(cartsRepo),
		orders:          orders.NewOrdersHandler(ordersRepo),
		sellerDashboard: seller.NewDashboardHandler(statsRepo),
		sellerProducts:  seller.NewProductsHandler(productsRepo, categoriesRepo),
		adminDashboard:  admin.NewDashboardHandler(statsRepo),
		adminUsers:      admin.NewUsersHandler(usersRepo),
		adminOrders:     admin.NewOrdersHandler(ordersRepo),
	}

	srv := &http.Server{
		Addr:     *addr,
		ErrorLog: errorLog,
		Handler:  app.routes(),
	}

	infoLog.Printf("starting marketgo on %s", *addr)
	errorLog.Fatal(srv.ListenAndServe())
}
